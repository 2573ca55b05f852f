package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"inkwell-backend/internal/auth"
	"inkwell-backend/internal/models"
	"inkwell-backend/internal/services"
	"inkwell-backend/pkg/httputil"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// PromptsService defines the raw CRUD interface expected from the prompt
// service. Read results carry stored (ciphertext) content verbatim.
type PromptsService interface {
	CreatePrompt(ctx context.Context, req models.CreatePromptRequest, userID uuid.UUID) (*models.PromptResponse, error)
	GetPrompt(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*models.PromptResponse, error)
	ListPrompts(ctx context.Context, userID uuid.UUID, promptType *models.PromptType) ([]models.PromptResponse, error)
	UpdatePrompt(ctx context.Context, id uuid.UUID, req models.UpdatePromptRequest, userID uuid.UUID) (*models.PromptResponse, error)
	DeletePrompt(ctx context.Context, id uuid.UUID, userID uuid.UUID) error
}

// PromptsReader is the decrypting read path, selected by ?decrypt=true.
type PromptsReader interface {
	GetPrompt(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*models.PromptResponse, error)
	ListPrompts(ctx context.Context, userID uuid.UUID, promptType *models.PromptType) ([]models.PromptResponse, error)
}

type PromptHandler struct {
	promptService PromptsService
	reader        PromptsReader
}

func NewPromptHandler(promptSvc PromptsService, reader PromptsReader) *PromptHandler {
	return &PromptHandler{
		promptService: promptSvc,
		reader:        reader,
	}
}

func wantsDecryptedContent(r *http.Request) bool {
	return r.URL.Query().Get("decrypt") == "true"
}

func promptTypeFilter(r *http.Request) *models.PromptType {
	typeQuery := r.URL.Query().Get("type")
	if typeQuery == "" {
		return nil
	}
	t := models.PromptType(typeQuery)
	return &t
}

// HandleCreatePrompt handles POST /v1/prompts
func (h *PromptHandler) HandleCreatePrompt(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "User ID not found in token context")
		return
	}

	var req models.CreatePromptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	resp, err := h.promptService.CreatePrompt(r.Context(), req, userID)
	if err != nil {
		log.Printf("ERROR [PromptHandler] HandleCreatePrompt for UserID %s: %v", userID, err)
		switch {
		case errors.Is(err, services.ErrPromptValidation):
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrPromptEncryption):
			httputil.RespondError(w, http.StatusInternalServerError, "Failed to secure prompt content")
		default:
			httputil.RespondError(w, http.StatusInternalServerError, "Failed to create prompt")
		}
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, resp)
}

// HandleListPrompts handles GET /v1/prompts
func (h *PromptHandler) HandleListPrompts(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "User ID not found in token context")
		return
	}

	typeFilter := promptTypeFilter(r)

	var (
		prompts []models.PromptResponse
		err     error
	)
	if wantsDecryptedContent(r) {
		prompts, err = h.reader.ListPrompts(r.Context(), userID, typeFilter)
	} else {
		prompts, err = h.promptService.ListPrompts(r.Context(), userID, typeFilter)
	}
	if err != nil {
		log.Printf("ERROR [PromptHandler] HandleListPrompts for UserID %s: %v", userID, err)
		if errors.Is(err, services.ErrPromptValidation) {
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to list prompts")
		return
	}

	// Return empty list if no prompts found, not an error
	if prompts == nil {
		prompts = []models.PromptResponse{}
	}

	httputil.RespondJSON(w, http.StatusOK, prompts)
}

// HandleGetPrompt handles GET /v1/prompts/{promptID}
func (h *PromptHandler) HandleGetPrompt(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "User ID not found in token context")
		return
	}

	promptID, err := uuid.Parse(chi.URLParam(r, "promptID"))
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid prompt ID format")
		return
	}

	var resp *models.PromptResponse
	if wantsDecryptedContent(r) {
		resp, err = h.reader.GetPrompt(r.Context(), promptID, userID)
	} else {
		resp, err = h.promptService.GetPrompt(r.Context(), promptID, userID)
	}
	if err != nil {
		log.Printf("ERROR [PromptHandler] HandleGetPrompt for ID %s, UserID %s: %v", promptID, userID, err)
		if errors.Is(err, services.ErrPromptNotFound) {
			httputil.RespondError(w, http.StatusNotFound, err.Error())
			return
		}
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to get prompt")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, resp)
}

// HandleUpdatePrompt handles PUT /v1/prompts/{promptID}
func (h *PromptHandler) HandleUpdatePrompt(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "User ID not found in token context")
		return
	}

	promptID, err := uuid.Parse(chi.URLParam(r, "promptID"))
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid prompt ID format")
		return
	}

	var req models.UpdatePromptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	resp, err := h.promptService.UpdatePrompt(r.Context(), promptID, req, userID)
	if err != nil {
		log.Printf("ERROR [PromptHandler] HandleUpdatePrompt for ID %s, UserID %s: %v", promptID, userID, err)
		switch {
		case errors.Is(err, services.ErrPromptNotFound):
			httputil.RespondError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, services.ErrPromptValidation):
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrPromptEncryption):
			httputil.RespondError(w, http.StatusInternalServerError, "Failed to secure prompt content")
		default:
			httputil.RespondError(w, http.StatusInternalServerError, "Failed to update prompt")
		}
		return
	}

	httputil.RespondJSON(w, http.StatusOK, resp)
}

// HandleDeletePrompt handles DELETE /v1/prompts/{promptID}
func (h *PromptHandler) HandleDeletePrompt(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "User ID not found in token context")
		return
	}

	promptID, err := uuid.Parse(chi.URLParam(r, "promptID"))
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid prompt ID format")
		return
	}

	if err := h.promptService.DeletePrompt(r.Context(), promptID, userID); err != nil {
		log.Printf("ERROR [PromptHandler] HandleDeletePrompt for ID %s, UserID %s: %v", promptID, userID, err)
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to delete prompt")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
