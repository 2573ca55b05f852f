package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"inkwell-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRequest() ChatRequest {
	return ChatRequest{
		Model:    "gpt-4o-mini",
		Messages: []models.ChatMessage{{Role: models.RoleUser, Content: "hi"}},
	}
}

func TestStreamChatForwardsDeltas(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req ChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.Stream, "stream must be forced on")

		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte("data: {\"choices\":[{\"delta\":{\"content\":\"Hel\"}}]}\n\n"))
		w.Write([]byte("data: {\"choices\":[{\"delta\":{\"content\":\"lo\"}}]}\n\n"))
		w.Write([]byte("data: {\"choices\":[{\"delta\":{}}]}\n\n")) // empty delta, skipped
		w.Write([]byte("data: [DONE]\n\n"))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))

	var got []string
	err := client.StreamChat(context.Background(), testRequest(), func(delta string) error {
		got = append(got, delta)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Hel", "lo"}, got)
}

func TestStreamChatSkipsMalformedEvents(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("data: {not json}\n\n"))
		w.Write([]byte(": comment line\n\n"))
		w.Write([]byte("data: {\"choices\":[{\"delta\":{\"content\":\"ok\"}}]}\n\n"))
		w.Write([]byte("data: [DONE]\n\n"))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))

	var got []string
	err := client.StreamChat(context.Background(), testRequest(), func(delta string) error {
		got = append(got, delta)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"ok"}, got)
}

func TestStreamChatEndsWithoutDone(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("data: {\"choices\":[{\"delta\":{\"content\":\"partial\"}}]}\n\n"))
		// Connection closes with no [DONE] terminator.
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))

	var got []string
	err := client.StreamChat(context.Background(), testRequest(), func(delta string) error {
		got = append(got, delta)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"partial"}, got)
}

func TestStreamChatStatusError(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantInMsg string
	}{
		{"unauthorized", http.StatusUnauthorized, "key rejected"},
		{"rate limited", http.StatusTooManyRequests, "rate limit"},
		{"bad request", http.StatusBadRequest, "rejected the request"},
		{"server error", http.StatusInternalServerError, "failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "upstream detail that must not leak", tt.status)
			}))
			defer srv.Close()

			client := NewClient("test-key", WithBaseURL(srv.URL))
			err := client.StreamChat(context.Background(), testRequest(), func(string) error {
				t.Fatal("onDelta must not be called on error")
				return nil
			})

			var statusErr *StatusError
			require.ErrorAs(t, err, &statusErr)
			assert.Equal(t, tt.status, statusErr.StatusCode)
			assert.Contains(t, statusErr.Message, tt.wantInMsg)
			assert.NotContains(t, statusErr.Message, "must not leak")
		})
	}
}

func TestStreamChatOnDeltaErrorAborts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("data: {\"choices\":[{\"delta\":{\"content\":\"a\"}}]}\n\n"))
		w.Write([]byte("data: {\"choices\":[{\"delta\":{\"content\":\"b\"}}]}\n\n"))
		w.Write([]byte("data: [DONE]\n\n"))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))

	calls := 0
	err := client.StreamChat(context.Background(), testRequest(), func(string) error {
		calls++
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 1, calls)
}

func TestChatURLHandlesBaseVariants(t *testing.T) {
	tests := []struct {
		base string
		want string
	}{
		{"https://api.openai.com/v1", "https://api.openai.com/v1/chat/completions"},
		{"https://api.openai.com/v1/", "https://api.openai.com/v1/chat/completions"},
		{"https://proxy.example.com", "https://proxy.example.com/v1/chat/completions"},
		{"", "https://api.openai.com/v1/chat/completions"},
	}
	for _, tt := range tests {
		client := NewClient("k", WithBaseURL(tt.base))
		assert.Equal(t, tt.want, client.chatURL())
	}
}
