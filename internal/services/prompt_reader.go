package services

import (
	"context"
	"log"

	"inkwell-backend/internal/crypto"
	"inkwell-backend/internal/models"

	"github.com/google/uuid"
)

// DecryptedPromptReader composes the raw prompt service with the content
// codec so that decryption is explicit in the type signature instead of a
// boolean flag threaded through every method. Reads come back with content
// resolved through the nested-decryption path; a failed decryption keeps the
// codec's best-effort value and is logged, never surfaced to the caller.
// A partially-unreadable template is preferable to a broken request.
type DecryptedPromptReader struct {
	svc   PromptService
	codec *crypto.Codec
}

// NewDecryptedPromptReader creates a reader over the given service.
func NewDecryptedPromptReader(svc PromptService, codec *crypto.Codec) *DecryptedPromptReader {
	return &DecryptedPromptReader{
		svc:   svc,
		codec: codec,
	}
}

func (r *DecryptedPromptReader) resolve(userID uuid.UUID, p *models.PromptResponse) {
	resolved, err := r.codec.DecryptNested(userID, p.Content)
	if err != nil {
		// The codec hands back whatever it managed to unwind; that value is
		// still the closest thing to readable content we have.
		log.Printf("WARN [PromptReader] Partial decrypt for PromptID %s, UserID %s, keeping best-effort value: %v", p.ID, userID, err)
	}
	p.Content = resolved
}

// GetPrompt retrieves a prompt with its content decrypted.
func (r *DecryptedPromptReader) GetPrompt(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*models.PromptResponse, error) {
	prompt, err := r.svc.GetPrompt(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	r.resolve(userID, prompt)
	return prompt, nil
}

// ListPrompts retrieves the user's prompts with contents decrypted,
// preserving the service's most-recently-updated-first ordering.
func (r *DecryptedPromptReader) ListPrompts(ctx context.Context, userID uuid.UUID, promptType *models.PromptType) ([]models.PromptResponse, error) {
	prompts, err := r.svc.ListPrompts(ctx, userID, promptType)
	if err != nil {
		return nil, err
	}
	for i := range prompts {
		r.resolve(userID, &prompts[i])
	}
	return prompts, nil
}
