package store

import (
	"context"
	"errors"

	"inkwell-backend/internal/models"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a specific record is not found.
var ErrNotFound = errors.New("record not found")

// CreatePromptParams contains parameters for creating a prompt template.
// Content is expected to already be in the codec's ciphertext format.
type CreatePromptParams struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Title       string
	Type        string
	Content     string
	Description *string
	Examples    []string
}

// UpdatePromptParams contains parameters for updating a prompt template.
// Pointer fields allow partial updates; updated_at is always refreshed.
type UpdatePromptParams struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Title       *string
	Type        *string
	Content     *string
	Description *string
	Examples    []string
}

// Store defines the interface for database operations.
// This allows for mocking in tests and potential DB backend switching.
type Store interface {
	// User operations
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error

	// Prompt operations. ListPrompts returns records ordered by updated_at
	// descending; that ordering is a contract the UI relies on.
	CreatePrompt(ctx context.Context, arg CreatePromptParams) (*models.Prompt, error)
	GetPromptByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*models.Prompt, error)
	ListPrompts(ctx context.Context, userID uuid.UUID, promptType *string) ([]models.Prompt, error)
	UpdatePrompt(ctx context.Context, arg UpdatePromptParams) (*models.Prompt, error)
	DeletePrompt(ctx context.Context, id uuid.UUID, userID uuid.UUID) error
}
