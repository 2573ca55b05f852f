package services

import (
	"context"
	"errors"
	"fmt"

	"inkwell-backend/internal/integrations/openai"
	"inkwell-backend/internal/models"

	"github.com/google/uuid"
)

// Numeric defaults applied when the client leaves options unset.
const (
	defaultTemperature = 0.7
	defaultMaxTokens   = 4096
)

var ErrGenerateValidation = errors.New("generation request validation failed")

// chatStreamer is the slice of the upstream client the service needs.
type chatStreamer interface {
	StreamChat(ctx context.Context, req openai.ChatRequest, onDelta func(string) error) error
}

// messageRewriter expands prompt references before messages go upstream.
type messageRewriter interface {
	RewriteMessages(ctx context.Context, userID uuid.UUID, messages []models.ChatMessage) []models.ChatMessage
}

// GenerationService validates generation requests, runs the prompt-reference
// rewriter over the messages, and streams upstream content deltas to the
// caller. It is stateless per request; concurrent generations from the same
// user are independent. No retries: a failed upstream call surfaces
// immediately.
type GenerationService struct {
	rewriter     messageRewriter
	upstream     chatStreamer
	defaultModel string
}

// NewGenerationService creates a GenerationService.
func NewGenerationService(rewriter messageRewriter, upstream chatStreamer, defaultModel string) *GenerationService {
	return &GenerationService{
		rewriter:     rewriter,
		upstream:     upstream,
		defaultModel: defaultModel,
	}
}

// Generate forwards the chat request upstream, invoking onDelta once per
// content delta as it arrives. Validation failures return
// ErrGenerateValidation before anything is forwarded.
func (s *GenerationService) Generate(ctx context.Context, userID uuid.UUID, req models.GenerateRequest, onDelta func(string) error) error {
	if len(req.Messages) == 0 {
		return fmt.Errorf("%w: messages cannot be empty", ErrGenerateValidation)
	}

	model := req.Options.Model
	if model == "" {
		model = s.defaultModel
	}
	if model == "" {
		return fmt.Errorf("%w: model must be specified", ErrGenerateValidation)
	}

	temperature := float64(defaultTemperature)
	if req.Options.Temperature != nil {
		temperature = *req.Options.Temperature
	}
	maxTokens := defaultMaxTokens
	if req.Options.MaxTokens != nil {
		maxTokens = *req.Options.MaxTokens
	}

	messages := s.rewriter.RewriteMessages(ctx, userID, req.Messages)

	return s.upstream.StreamChat(ctx, openai.ChatRequest{
		Model:       model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}, onDelta)
}
