// Package openai is a focused client for an OpenAI-compatible streaming
// chat-completions endpoint. Only the streaming path is implemented; the
// relay never buffers a whole completion.
package openai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"inkwell-backend/internal/models"
)

const defaultBaseURL = "https://api.openai.com/v1"

// ChatRequest is the minimal request shape for the Chat Completions endpoint.
type ChatRequest struct {
	Model       string               `json:"model"`
	Messages    []models.ChatMessage `json:"messages"`
	Temperature float64              `json:"temperature"`
	MaxTokens   int                  `json:"max_tokens"`
	Stream      bool                 `json:"stream"`
}

// streamChunk is the minimal shape of one upstream SSE data payload.
type streamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// StatusError captures a non-2xx upstream response so the relay can
// propagate the upstream status code with a descriptive message.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("openai: upstream status %d: %s", e.StatusCode, e.Message)
}

// Client talks to an OpenAI-compatible completion API with a server-held key.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSpace(baseURL)
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a new Client. The default HTTP client carries no
// timeout: a streaming completion lives as long as the upstream keeps
// sending, and cancellation arrives through the request context.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) chatURL() string {
	base := strings.TrimRight(c.baseURL, "/")
	if base == "" {
		base = defaultBaseURL
	}
	if strings.HasSuffix(base, "/v1") {
		return base + "/chat/completions"
	}
	return base + "/v1/chat/completions"
}

// StreamChat posts the chat request with stream forced on and invokes
// onDelta for every non-empty content delta as it arrives. Malformed SSE
// lines are skipped. The call returns when the upstream signals [DONE],
// the stream ends, or onDelta returns an error.
func (c *Client) StreamChat(ctx context.Context, chatReq ChatRequest, onDelta func(string) error) error {
	chatReq.Stream = true // always forced, regardless of caller input

	body, err := json.Marshal(chatReq)
	if err != nil {
		return fmt.Errorf("openai: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.chatURL(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("openai: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("openai: request failed: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		// Drain a little of the body for logs but never forward it raw.
		_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, 4096))
		return &StatusError{
			StatusCode: res.StatusCode,
			Message:    messageForStatus(res.StatusCode),
		}
	}

	scanner := bufio.NewScanner(res.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		payload := strings.TrimPrefix(line, "data: ")
		if payload == "[DONE]" {
			return nil
		}

		var chunk streamChunk
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			// Individual malformed events are not fatal.
			continue
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		if delta := chunk.Choices[0].Delta.Content; delta != "" {
			if err := onDelta(delta); err != nil {
				return err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("openai: reading stream: %w", err)
	}

	// Upstream closed without [DONE]; the stream is over either way.
	return nil
}

func messageForStatus(status int) string {
	switch status {
	case http.StatusUnauthorized:
		return "upstream API key rejected"
	case http.StatusTooManyRequests:
		return "upstream rate limit exceeded"
	case http.StatusBadRequest:
		return "upstream rejected the request"
	default:
		return "upstream completion request failed"
	}
}
