package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

type transcriptionResponse struct {
	Text string `json:"text"`
}

// SpeechClient calls a whisper-style transcription endpoint that accepts a
// multipart upload with "file" and "model" fields.
type SpeechClient struct {
	Endpoint string
	APIKey   string
	Model    string
	HTTP     *http.Client
}

// NewSpeechClient returns a client whose requests are bounded by timeout.
func NewSpeechClient(endpoint, apiKey, model string, timeout time.Duration) *SpeechClient {
	return &SpeechClient{
		Endpoint: endpoint,
		APIKey:   apiKey,
		Model:    model,
		HTTP:     &http.Client{Timeout: timeout},
	}
}

// Transcribe uploads audio and returns the transcript text.
func (c *SpeechClient) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	if filename == "" {
		filename = "audio.wav"
	}
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := fw.Write(audio); err != nil {
		return "", err
	}
	if err := mw.WriteField("model", c.Model); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(context.WithoutCancel(ctx), http.MethodPost, c.Endpoint, &buf)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("send transcription: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("read transcription: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &StatusError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	var out transcriptionResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("decode transcription: %w", err)
	}
	if strings.TrimSpace(out.Text) == "" {
		return "", ErrEmptyResponse
	}
	return strings.TrimSpace(out.Text), nil
}
