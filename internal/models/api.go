package models

import (
	"time"

	"github.com/google/uuid"
)

// --- Request Structs ---

// SignupRequest defines the expected body for the signup endpoint.
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest defines the expected body for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// --- Response Structs ---

// UserResponse defines the user information returned by the API.
// Avoid returning sensitive info like HashedPassword.
type UserResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

// AuthResponse defines the response body for successful authentication.
type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	User        UserResponse `json:"user"`
}

// ErrorResponse defines the standard structure for API errors.
type ErrorResponse struct {
	Error string `json:"error"`
}

// --- Prompt DTOs ---

// PromptType groups prompt templates for filtering and UI grouping.
// It is a pass-through field as far as encryption is concerned.
type PromptType string

const (
	PromptTypeAIWriting     PromptType = "ai_writing"
	PromptTypeWorldbuilding PromptType = "worldbuilding"
	PromptTypeOutline       PromptType = "outline"
	PromptTypeCharacter     PromptType = "character"
	PromptTypePolish        PromptType = "polish"
	PromptTypeCustom        PromptType = "custom"
)

// ValidPromptType reports whether t is one of the known categories.
func ValidPromptType(t PromptType) bool {
	switch t {
	case PromptTypeAIWriting, PromptTypeWorldbuilding, PromptTypeOutline,
		PromptTypeCharacter, PromptTypePolish, PromptTypeCustom:
		return true
	}
	return false
}

// CreatePromptRequest defines the body for creating a prompt template.
// Content arrives as plaintext and is encrypted before persistence.
type CreatePromptRequest struct {
	Title       string     `json:"title"`
	Type        PromptType `json:"type"`
	Content     string     `json:"content"`
	Description *string    `json:"description,omitempty"`
	Examples    []string   `json:"examples,omitempty"`
}

// UpdatePromptRequest defines the body for updating a prompt template.
// Pointer fields allow partial updates.
type UpdatePromptRequest struct {
	Title       *string     `json:"title,omitempty"`
	Type        *PromptType `json:"type,omitempty"`
	Content     *string     `json:"content,omitempty"`
	Description *string     `json:"description,omitempty"`
	Examples    []string    `json:"examples,omitempty"`
}

// PromptResponse defines the data returned for a prompt template. Content is
// ciphertext unless the request asked for decryption.
type PromptResponse struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Type        PromptType `json:"type"`
	Content     string     `json:"content"`
	Description *string    `json:"description,omitempty"`
	Examples    []string   `json:"examples,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// --- Generation DTOs ---

// GenerateOptions carries the tunables forwarded to the upstream model.
// Absent numeric fields are defaulted server-side.
type GenerateOptions struct {
	Model       string   `json:"model,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	MaxTokens   *int     `json:"max_tokens,omitempty"`
}

// GenerateRequest defines the body for the streaming generation endpoint.
type GenerateRequest struct {
	Messages []ChatMessage   `json:"messages"`
	Options  GenerateOptions `json:"options"`
}

// StreamEvent is the normalized SSE payload emitted by the relay:
// one event per upstream content delta.
type StreamEvent struct {
	Content string `json:"content"`
}
