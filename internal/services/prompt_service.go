package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"inkwell-backend/internal/crypto"
	"inkwell-backend/internal/models"
	"inkwell-backend/internal/store"

	"github.com/google/uuid"
)

// Custom errors for the prompt service
var (
	ErrPromptNotFound   = errors.New("prompt not found")
	ErrPromptValidation = errors.New("prompt validation failed")
	ErrPromptEncryption = errors.New("prompt content encryption failed")
)

// PromptService defines the raw CRUD surface over prompt templates.
// Content is encrypted before every write; reads return the stored
// (ciphertext) content verbatim. Use DecryptedPromptReader for plaintext.
type PromptService interface {
	CreatePrompt(ctx context.Context, req models.CreatePromptRequest, userID uuid.UUID) (*models.PromptResponse, error)
	GetPrompt(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*models.PromptResponse, error)
	ListPrompts(ctx context.Context, userID uuid.UUID, promptType *models.PromptType) ([]models.PromptResponse, error)
	UpdatePrompt(ctx context.Context, id uuid.UUID, req models.UpdatePromptRequest, userID uuid.UUID) (*models.PromptResponse, error)
	DeletePrompt(ctx context.Context, id uuid.UUID, userID uuid.UUID) error
}

type promptService struct {
	store store.Store
	codec *crypto.Codec
}

// NewPromptService creates a new PromptService.
func NewPromptService(s store.Store, codec *crypto.Codec) PromptService {
	return &promptService{
		store: s,
		codec: codec,
	}
}

func mapPromptToResponse(p *models.Prompt) *models.PromptResponse {
	return &models.PromptResponse{
		ID:          p.ID,
		Title:       p.Title,
		Type:        p.Type,
		Content:     p.Content,
		Description: p.Description,
		Examples:    p.Examples,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// encryptContent seals plaintext content under the user's key. Content that
// already carries the ciphertext prefix is stored verbatim: re-encrypting
// ciphertext is exactly the double-encryption defect the nested resolver
// exists to clean up, so the write path refuses to introduce it.
func (s *promptService) encryptContent(userID uuid.UUID, content string) (string, error) {
	if crypto.IsEncrypted(content) {
		return content, nil
	}
	encrypted, err := s.codec.Encrypt(userID, content)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPromptEncryption, err)
	}
	return encrypted, nil
}

// CreatePrompt validates, encrypts, and stores a new prompt template.
func (s *promptService) CreatePrompt(ctx context.Context, req models.CreatePromptRequest, userID uuid.UUID) (*models.PromptResponse, error) {
	if req.Title == "" {
		return nil, fmt.Errorf("%w: title cannot be empty", ErrPromptValidation)
	}
	if req.Content == "" {
		return nil, fmt.Errorf("%w: content cannot be empty", ErrPromptValidation)
	}
	if !models.ValidPromptType(req.Type) {
		return nil, fmt.Errorf("%w: unknown prompt type %q", ErrPromptValidation, req.Type)
	}

	encrypted, err := s.encryptContent(userID, req.Content)
	if err != nil {
		log.Printf("ERROR [PromptService] CreatePrompt: Encryption failed for UserID %s: %v", userID, err)
		return nil, err
	}

	params := store.CreatePromptParams{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       req.Title,
		Type:        string(req.Type),
		Content:     encrypted,
		Description: req.Description,
		Examples:    req.Examples,
	}

	prompt, err := s.store.CreatePrompt(ctx, params)
	if err != nil {
		log.Printf("ERROR [PromptService] CreatePrompt: Store call failed for UserID %s: %v", userID, err)
		return nil, fmt.Errorf("failed to save prompt: %w", err)
	}

	log.Printf("[PromptService] CreatePrompt: Successfully created PromptID %s for UserID %s", prompt.ID, userID)
	return mapPromptToResponse(prompt), nil
}

// GetPrompt retrieves a prompt by ID for the specified user.
func (s *promptService) GetPrompt(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*models.PromptResponse, error) {
	prompt, err := s.store.GetPromptByID(ctx, id, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPromptNotFound
		}
		log.Printf("ERROR [PromptService] GetPrompt: Store call failed for ID %s, UserID %s: %v", id, userID, err)
		return nil, fmt.Errorf("failed to retrieve prompt: %w", err)
	}
	return mapPromptToResponse(prompt), nil
}

// ListPrompts retrieves the user's prompts, optionally filtered by type,
// most recently updated first.
func (s *promptService) ListPrompts(ctx context.Context, userID uuid.UUID, promptType *models.PromptType) ([]models.PromptResponse, error) {
	var typeFilter *string
	if promptType != nil {
		if !models.ValidPromptType(*promptType) {
			return nil, fmt.Errorf("%w: unknown prompt type %q", ErrPromptValidation, *promptType)
		}
		t := string(*promptType)
		typeFilter = &t
	}

	prompts, err := s.store.ListPrompts(ctx, userID, typeFilter)
	if err != nil {
		log.Printf("ERROR [PromptService] ListPrompts: Store call failed for UserID %s: %v", userID, err)
		return nil, fmt.Errorf("failed to list prompts: %w", err)
	}

	resp := make([]models.PromptResponse, len(prompts))
	for i := range prompts {
		resp[i] = *mapPromptToResponse(&prompts[i])
	}
	return resp, nil
}

// UpdatePrompt applies a partial update. New content is encrypted before
// persistence; updated_at is refreshed by the store.
func (s *promptService) UpdatePrompt(ctx context.Context, id uuid.UUID, req models.UpdatePromptRequest, userID uuid.UUID) (*models.PromptResponse, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("%w: prompt id is required for update", ErrPromptValidation)
	}
	if req.Title == nil && req.Type == nil && req.Content == nil && req.Description == nil && req.Examples == nil {
		return nil, fmt.Errorf("%w: no fields to update", ErrPromptValidation)
	}
	if req.Type != nil && !models.ValidPromptType(*req.Type) {
		return nil, fmt.Errorf("%w: unknown prompt type %q", ErrPromptValidation, *req.Type)
	}

	params := store.UpdatePromptParams{
		ID:          id,
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Examples:    req.Examples,
	}
	if req.Type != nil {
		t := string(*req.Type)
		params.Type = &t
	}
	if req.Content != nil {
		if *req.Content == "" {
			return nil, fmt.Errorf("%w: content cannot be empty", ErrPromptValidation)
		}
		encrypted, err := s.encryptContent(userID, *req.Content)
		if err != nil {
			log.Printf("ERROR [PromptService] UpdatePrompt: Encryption failed for ID %s, UserID %s: %v", id, userID, err)
			return nil, err
		}
		params.Content = &encrypted
	}

	prompt, err := s.store.UpdatePrompt(ctx, params)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPromptNotFound
		}
		log.Printf("ERROR [PromptService] UpdatePrompt: Store call failed for ID %s, UserID %s: %v", id, userID, err)
		return nil, fmt.Errorf("failed to update prompt: %w", err)
	}

	log.Printf("[PromptService] UpdatePrompt: Successfully updated PromptID %s for UserID %s", id, userID)
	return mapPromptToResponse(prompt), nil
}

// DeletePrompt removes a prompt. Deleting an already-absent record is not an
// error from the caller's perspective.
func (s *promptService) DeletePrompt(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	err := s.store.DeletePrompt(ctx, id, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Printf("[PromptService] DeletePrompt: PromptID %s already absent for UserID %s", id, userID)
			return nil
		}
		log.Printf("ERROR [PromptService] DeletePrompt: Store call failed for ID %s, UserID %s: %v", id, userID, err)
		return fmt.Errorf("failed to delete prompt: %w", err)
	}
	log.Printf("[PromptService] DeletePrompt: Successfully deleted PromptID %s for UserID %s", id, userID)
	return nil
}
