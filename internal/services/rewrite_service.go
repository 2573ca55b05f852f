package services

import (
	"context"
	"log"
	"strings"

	"inkwell-backend/internal/models"
	"inkwell-backend/internal/promptref"

	"github.com/google/uuid"
)

// promptFetcher is the slice of the decrypting reader the rewriter needs.
type promptFetcher interface {
	GetPrompt(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*models.PromptResponse, error)
}

// RewriteService expands prompt references in system messages before they
// reach the model. Every expanded template is accompanied by a guard block
// so raw template text never goes upstream without its anti-exfiltration
// rules. Failures are isolated per message: a reference that cannot be
// resolved leaves the original message in place.
type RewriteService struct {
	prompts promptFetcher
}

// NewRewriteService creates a RewriteService backed by a decrypting reader.
func NewRewriteService(prompts promptFetcher) *RewriteService {
	return &RewriteService{prompts: prompts}
}

// RewriteMessages returns a new message slice with prompt references
// expanded. The input slice is never mutated.
func (s *RewriteService) RewriteMessages(ctx context.Context, userID uuid.UUID, messages []models.ChatMessage) []models.ChatMessage {
	out := make([]models.ChatMessage, len(messages))
	for i, msg := range messages {
		out[i] = s.rewriteMessage(ctx, userID, msg)
	}
	return out
}

func (s *RewriteService) rewriteMessage(ctx context.Context, userID uuid.UUID, msg models.ChatMessage) models.ChatMessage {
	if msg.Role != models.RoleSystem {
		return msg
	}

	ref := promptref.Parse(msg.Content)
	if ref.Format == promptref.FormatNone {
		return msg
	}
	if ref.PromptID == "" {
		log.Printf("WARN [RewriteService] System message carries the prompt sentinel but no extractable id, keeping original")
		return msg
	}
	if userID == uuid.Nil {
		log.Printf("WARN [RewriteService] No authenticated user for prompt reference %s, keeping original", ref.PromptID)
		return msg
	}

	promptID, err := uuid.Parse(ref.PromptID)
	if err != nil {
		log.Printf("WARN [RewriteService] Prompt reference %q is not a valid id, keeping original: %v", ref.PromptID, err)
		return msg
	}

	prompt, err := s.prompts.GetPrompt(ctx, promptID, userID)
	if err != nil {
		log.Printf("WARN [RewriteService] Failed to fetch prompt %s for UserID %s, keeping original: %v", promptID, userID, err)
		return msg
	}

	rewritten := msg
	switch ref.Format {
	case promptref.FormatTagged:
		content := promptref.ReplaceContent(msg.Content, prompt.Content)
		if !ref.HasGuard {
			content = insertGuardBeforeContent(content)
		}
		rewritten.Content = content
	case promptref.FormatLegacy:
		rewritten.Content = promptref.GuardBlock() + "\n" + promptref.WrapContent(prompt.Content)
	}
	return rewritten
}

// insertGuardBeforeContent places the guard block immediately before the
// tagged content region.
func insertGuardBeforeContent(content string) string {
	idx := strings.Index(content, promptref.ContentOpenTag)
	if idx < 0 {
		return promptref.GuardBlock() + "\n" + content
	}
	return content[:idx] + promptref.GuardBlock() + "\n" + content[idx:]
}
