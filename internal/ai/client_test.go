package ai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestCompleteSendsMessagesAndParsesChoice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer k1" {
			t.Errorf("authorization = %q", got)
		}
		var req completionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode: %v", err)
		}
		if req.Model != "m1" || len(req.Messages) != 2 || req.Messages[0].Role != RoleSystem {
			t.Errorf("request = %+v", req)
		}
		_, _ = io.WriteString(w, `{"choices":[{"message":{"role":"assistant","content":"  Xin chào  "}}]}`)
	}))
	defer srv.Close()

	c := NewCompletionClient(srv.URL, "k1", "m1", time.Second)
	out, err := c.Complete(context.Background(), []Message{
		{Role: RoleSystem, Content: "translate"},
		{Role: RoleUser, Content: "Hello"},
	})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if out != "Xin chào" {
		t.Fatalf("out = %q", out)
	}
}

func TestCompleteErrors(t *testing.T) {
	cases := map[string]struct {
		status int
		body   string
		check  func(error) bool
	}{
		"status":  {http.StatusTooManyRequests, `{"error":"slow down"}`, func(err error) bool { var se *StatusError; return errors.As(err, &se) && se.StatusCode == 429 }},
		"empty":   {http.StatusOK, `{"choices":[]}`, func(err error) bool { return errors.Is(err, ErrEmptyResponse) }},
		"garbage": {http.StatusOK, `<html>`, func(err error) bool { return err != nil }},
	}
	for name, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			_, _ = io.WriteString(w, tc.body)
		}))
		_, err := NewCompletionClient(srv.URL, "", "m", time.Second).Complete(context.Background(), nil)
		srv.Close()
		if !tc.check(err) {
			t.Errorf("%s: unexpected err %v", name, err)
		}
	}
}

func TestCompleteIgnoresCallerCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(50 * time.Millisecond)
		_, _ = io.WriteString(w, `{"choices":[{"message":{"content":"done"}}]}`)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out, err := NewCompletionClient(srv.URL, "", "m", time.Second).Complete(ctx, nil)
	if err != nil || out != "done" {
		t.Fatalf("out = %q, err = %v", out, err)
	}
}

func TestTranscribeUploadsMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse: %v", err)
		}
		if r.FormValue("model") != "whisper-1" {
			t.Errorf("model = %q", r.FormValue("model"))
		}
		f, fh, err := r.FormFile("file")
		if err != nil {
			t.Errorf("file: %v", err)
		} else {
			data, _ := io.ReadAll(f)
			if string(data) != "RIFF" || fh.Filename != "memo.wav" {
				t.Errorf("file = %q %q", fh.Filename, data)
			}
		}
		_, _ = io.WriteString(w, `{"text":"hello team"}`)
	}))
	defer srv.Close()

	out, err := NewSpeechClient(srv.URL, "", "whisper-1", time.Second).Transcribe(context.Background(), []byte("RIFF"), "memo.wav")
	if err != nil || out != "hello team" {
		t.Fatalf("out = %q, err = %v", out, err)
	}
}

func TestTranscribeEmptyText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"text":"   "}`)
	}))
	defer srv.Close()

	_, err := NewSpeechClient(srv.URL, "", "whisper-1", time.Second).Transcribe(context.Background(), []byte("x"), "")
	if !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("err = %v, want ErrEmptyResponse", err)
	}
}
