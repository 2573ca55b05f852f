package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"inkwell-backend/internal/auth"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-jwt-secret"

func protectedEcho(t *testing.T, gotUserID *uuid.UUID) http.Handler {
	t.Helper()
	return JwtAuthMiddleware(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.GetUserIDFromContext(r.Context())
		require.True(t, ok)
		*gotUserID = userID
		w.WriteHeader(http.StatusOK)
	}))
}

func TestJwtAuthMiddlewareAcceptsValidToken(t *testing.T) {
	userID := uuid.New()
	token, err := auth.NewAccessToken(userID, testSecret, time.Hour)
	require.NoError(t, err)

	var gotUserID uuid.UUID
	handler := protectedEcho(t, &gotUserID)

	req := httptest.NewRequest(http.MethodGet, "/v1/prompts", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID, gotUserID)
}

func TestJwtAuthMiddlewareRejectsMissingHeader(t *testing.T) {
	var gotUserID uuid.UUID
	handler := protectedEcho(t, &gotUserID)

	req := httptest.NewRequest(http.MethodGet, "/v1/prompts", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJwtAuthMiddlewareRejectsMalformedHeader(t *testing.T) {
	var gotUserID uuid.UUID
	handler := protectedEcho(t, &gotUserID)

	req := httptest.NewRequest(http.MethodGet, "/v1/prompts", nil)
	req.Header.Set("Authorization", "Token abc123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJwtAuthMiddlewareRejectsExpiredToken(t *testing.T) {
	token, err := auth.NewAccessToken(uuid.New(), testSecret, -time.Minute)
	require.NoError(t, err)

	var gotUserID uuid.UUID
	handler := protectedEcho(t, &gotUserID)

	req := httptest.NewRequest(http.MethodGet, "/v1/prompts", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "expired")
}

func TestJwtAuthMiddlewareRejectsWrongSecret(t *testing.T) {
	token, err := auth.NewAccessToken(uuid.New(), "some-other-secret", time.Hour)
	require.NoError(t, err)

	var gotUserID uuid.UUID
	handler := protectedEcho(t, &gotUserID)

	req := httptest.NewRequest(http.MethodGet, "/v1/prompts", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
