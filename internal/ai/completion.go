// Package ai contains HTTP clients for the hosted text-completion and
// speech-to-text endpoints.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Message roles understood by the completion endpoint.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// ErrEmptyResponse is returned when the endpoint answers 200 with no usable
// text.
var ErrEmptyResponse = errors.New("empty response")

// StatusError is returned for any non-2xx response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API returned status code %d", e.StatusCode)
}

// Message is one chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

type completionResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

// CompletionClient calls an OpenAI-style chat completions endpoint.
type CompletionClient struct {
	Endpoint string
	APIKey   string
	Model    string
	HTTP     *http.Client
}

// NewCompletionClient returns a client whose requests are bounded by timeout.
func NewCompletionClient(endpoint, apiKey, model string, timeout time.Duration) *CompletionClient {
	return &CompletionClient{
		Endpoint: endpoint,
		APIKey:   apiKey,
		Model:    model,
		HTTP:     &http.Client{Timeout: timeout},
	}
}

// Complete sends messages and returns the first choice's content.  Once
// issued the request runs to completion or to the client timeout; caller
// cancellation is not propagated.
func (c *CompletionClient) Complete(ctx context.Context, messages []Message) (string, error) {
	body, err := json.Marshal(completionRequest{Model: c.Model, Messages: messages})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(context.WithoutCancel(ctx), http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("send completion: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("read completion: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &StatusError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var out completionResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("decode completion: %w", err)
	}
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return "", ErrEmptyResponse
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}
