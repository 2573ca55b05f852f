package aiclient

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors returned by the client. Callers branch on these with
// errors.Is to decide what to show the user; the wrapped message keeps the
// server's own wording for logs.
var (
	// ErrNotAuthenticated means the client was constructed without a token.
	ErrNotAuthenticated = errors.New("aiclient: not authenticated")

	// ErrAborted means the caller cancelled the context mid-generation.
	// Deliberate cancellation is not a failure and must stay distinguishable
	// from every other error.
	ErrAborted = errors.New("aiclient: generation aborted")

	// ErrMissingAPIKey means the server has no upstream key configured.
	ErrMissingAPIKey = errors.New("aiclient: upstream API key not configured")

	// ErrAuthFailed means the token or the server's upstream key was rejected.
	ErrAuthFailed = errors.New("aiclient: authentication failed")

	// ErrRateLimited means the server or its upstream throttled the request.
	ErrRateLimited = errors.New("aiclient: rate limited")

	// ErrContextLength means the conversation no longer fits the model window.
	ErrContextLength = errors.New("aiclient: context length exceeded")

	// ErrNetwork wraps transport-level failures reaching the server.
	ErrNetwork = errors.New("aiclient: network error")
)

// errorRule pairs a predicate with the sentinel it classifies to. Rules are
// evaluated in order; the first match wins, so put the more specific
// predicates first.
type errorRule struct {
	matches func(statusCode int, message string) bool
	err     error
}

var errorRules = []errorRule{
	{
		matches: func(_ int, msg string) bool {
			return strings.Contains(msg, "key not configured") ||
				strings.Contains(msg, "missing api key") ||
				strings.Contains(msg, "no api key")
		},
		err: ErrMissingAPIKey,
	},
	{
		matches: func(status int, msg string) bool {
			return status == http.StatusUnauthorized ||
				status == http.StatusForbidden ||
				strings.Contains(msg, "key rejected") ||
				strings.Contains(msg, "invalid api key") ||
				strings.Contains(msg, "unauthorized")
		},
		err: ErrAuthFailed,
	},
	{
		matches: func(status int, msg string) bool {
			return status == http.StatusTooManyRequests ||
				strings.Contains(msg, "rate limit")
		},
		err: ErrRateLimited,
	},
	{
		matches: func(_ int, msg string) bool {
			return strings.Contains(msg, "context length") ||
				strings.Contains(msg, "maximum context") ||
				strings.Contains(msg, "too many tokens")
		},
		err: ErrContextLength,
	},
}

// Classify maps a non-2xx response to a sentinel error, preserving the
// server's message. Unrecognized errors are echoed as-is so nothing is
// silently reworded.
func Classify(statusCode int, message string) error {
	normalized := strings.ToLower(message)
	for _, rule := range errorRules {
		if rule.matches(statusCode, normalized) {
			return fmt.Errorf("%w: %s", rule.err, message)
		}
	}
	if message == "" {
		return fmt.Errorf("aiclient: request failed with status %d", statusCode)
	}
	return fmt.Errorf("aiclient: %s", message)
}
