// Package aiclient is the client-side library for the generation endpoint.
// It authenticates with a bearer token, streams simplified server-sent
// events, and classifies server errors into stable sentinels.
package aiclient

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

// Request types re-exported so consumers build calls entirely from this
// package's surface.
type (
	ChatMessage     = models.ChatMessage
	GenerateOptions = models.GenerateOptions
)

// Message roles accepted in ChatMessage.Role.
const (
	RoleSystem    = models.RoleSystem
	RoleUser      = models.RoleUser
	RoleAssistant = models.RoleAssistant
)

// Client talks to a running backend's /v1/generate endpoint.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// New creates a Client for the backend at baseURL, authenticating with the
// given access token. The default HTTP client carries no timeout because a
// generation streams for as long as the model produces tokens; use the
// context to bound a call.
func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		token:      token,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Generate runs a full generation and returns the accumulated text.
func (c *Client) Generate(ctx context.Context, messages []ChatMessage, opts GenerateOptions) (string, error) {
	var b strings.Builder
	err := c.GenerateStream(ctx, messages, opts, func(chunk string) error {
		b.WriteString(chunk)
		return nil
	})
	return b.String(), err
}

// GenerateStream posts the messages and invokes onChunk for every content
// delta as it arrives. An empty message slice is a silent no-op. Malformed
// events are skipped. Cancelling the context returns ErrAborted.
func (c *Client) GenerateStream(ctx context.Context, messages []ChatMessage, opts GenerateOptions, onChunk func(string) error) error {
	if len(messages) == 0 {
		return nil
	}
	if c.token == "" {
		return ErrNotAuthenticated
	}

	body, err := json.Marshal(models.GenerateRequest{
		Messages: messages,
		Options:  opts,
	})
	if err != nil {
		return fmt.Errorf("aiclient: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/generate", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("aiclient: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Authorization", "Bearer "+c.token)

	res, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %v", ErrAborted, ctx.Err())
		}
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return Classify(res.StatusCode, readErrorMessage(res.Body))
	}

	scanner := bufio.NewScanner(res.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data: ") {
			continue
		}

		var event models.StreamEvent
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &event); err != nil {
			// Individual malformed events are not fatal.
			continue
		}
		if event.Content == "" {
			continue
		}
		if err := onChunk(event.Content); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %v", ErrAborted, ctx.Err())
		}
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	if ctx.Err() != nil {
		return fmt.Errorf("%w: %v", ErrAborted, ctx.Err())
	}
	return nil
}

// readErrorMessage pulls the server's error string out of a JSON error body.
// Anything unparseable yields an empty message and the status-only fallback.
func readErrorMessage(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil {
		return ""
	}
	var resp models.ErrorResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return strings.TrimSpace(string(body))
	}
	return resp.Error
}
