package aiclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userMessage(content string) []ChatMessage {
	return []ChatMessage{{Role: RoleUser, Content: content}}
}

func TestGenerateAccumulatesChunks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/generate", r.URL.Path)
		assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte("data: {\"content\":\"Hel\"}\n\n"))
		w.Write([]byte("data: {\"content\":\"lo\"}\n\n"))
	}))
	defer srv.Close()

	client := New(srv.URL, "token-123")
	got, err := client.Generate(context.Background(), userMessage("hi"), GenerateOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Hello", got)
}

func TestGenerateStreamInvokesOnChunkPerDelta(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("data: {\"content\":\"a\"}\n\n"))
		w.Write([]byte("data: {not json}\n\n")) // skipped
		w.Write([]byte("data: {\"content\":\"b\"}\n\n"))
	}))
	defer srv.Close()

	client := New(srv.URL, "token-123")

	var chunks []string
	err := client.GenerateStream(context.Background(), userMessage("hi"), GenerateOptions{}, func(chunk string) error {
		chunks = append(chunks, chunk)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, chunks)
}

func TestGenerateStreamEmptyMessagesIsNoOp(t *testing.T) {
	client := New("http://127.0.0.1:0", "token-123")

	err := client.GenerateStream(context.Background(), nil, GenerateOptions{}, func(string) error {
		t.Fatal("onChunk must not be called")
		return nil
	})
	assert.NoError(t, err)
}

func TestGenerateStreamRequiresToken(t *testing.T) {
	client := New("http://127.0.0.1:0", "")

	err := client.GenerateStream(context.Background(), userMessage("hi"), GenerateOptions{}, func(string) error {
		return nil
	})
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestGenerateStreamClassifiesServerErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"missing key", http.StatusInternalServerError, `{"error":"upstream API key not configured"}`, ErrMissingAPIKey},
		{"auth failure", http.StatusUnauthorized, `{"error":"Invalid token"}`, ErrAuthFailed},
		{"rate limit", http.StatusTooManyRequests, `{"error":"upstream rate limit exceeded"}`, ErrRateLimited},
		{"context length", http.StatusBadRequest, `{"error":"maximum context length is 8192 tokens"}`, ErrContextLength},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := New(srv.URL, "token-123")
			err := client.GenerateStream(context.Background(), userMessage("hi"), GenerateOptions{}, func(string) error {
				t.Fatal("onChunk must not be called on error")
				return nil
			})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestGenerateStreamAbortedContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("data: {\"content\":\"a\"}\n\n"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := New(srv.URL, "token-123")
	err := client.GenerateStream(ctx, userMessage("hi"), GenerateOptions{}, func(string) error {
		return nil
	})
	assert.ErrorIs(t, err, ErrAborted)
}

func TestGenerateStreamNetworkError(t *testing.T) {
	// Nothing listens on this address.
	client := New("http://127.0.0.1:1", "token-123")

	err := client.GenerateStream(context.Background(), userMessage("hi"), GenerateOptions{}, func(string) error {
		return nil
	})
	assert.ErrorIs(t, err, ErrNetwork)
}

func TestClassifyFallbackEchoesMessage(t *testing.T) {
	err := Classify(http.StatusInternalServerError, "something novel broke")
	assert.ErrorContains(t, err, "something novel broke")
	assert.NotErrorIs(t, err, ErrAuthFailed)
	assert.NotErrorIs(t, err, ErrRateLimited)
}

func TestClassifyOrderPrefersMissingKeyOverAuth(t *testing.T) {
	// A 401 whose message says the key is not configured is a setup problem,
	// not a credentials problem.
	err := Classify(http.StatusUnauthorized, "upstream API key not configured")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}
