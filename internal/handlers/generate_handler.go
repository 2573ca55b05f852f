package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"inkwell-backend/internal/auth"
	"inkwell-backend/internal/integrations/openai"
	"inkwell-backend/internal/models"
	"inkwell-backend/internal/services"
	"inkwell-backend/pkg/httputil"

	"github.com/google/uuid"
)

// GenerationService streams content deltas for a chat generation request.
type GenerationService interface {
	Generate(ctx context.Context, userID uuid.UUID, req models.GenerateRequest, onDelta func(string) error) error
}

type GenerateHandler struct {
	generationService GenerationService
}

func NewGenerateHandler(generationSvc GenerationService) *GenerateHandler {
	return &GenerateHandler{
		generationService: generationSvc,
	}
}

// HandleGenerate handles POST /v1/generate. The response is a
// text/event-stream of simplified events, one per upstream content delta:
//
//	data: {"content":"..."}
//
// Upstream chunk framing is never forwarded raw. Errors that occur before
// the first delta map to JSON error responses; once the stream headers are
// written, failures can only be logged and the connection closed.
func (h *GenerateHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "User ID not found in token context")
		return
	}

	var req models.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	flusher, ok := w.(http.Flusher)
	if !ok {
		log.Printf("ERROR [GenerateHandler] HandleGenerate: response writer does not support flushing")
		httputil.RespondError(w, http.StatusInternalServerError, "Streaming not supported")
		return
	}

	streaming := false
	onDelta := func(delta string) error {
		if !streaming {
			w.Header().Set("Content-Type", "text/event-stream")
			w.Header().Set("Cache-Control", "no-cache")
			w.Header().Set("Connection", "keep-alive")
			w.WriteHeader(http.StatusOK)
			streaming = true
		}
		event, err := json.Marshal(models.StreamEvent{Content: delta})
		if err != nil {
			return err
		}
		if _, err := w.Write([]byte("data: " + string(event) + "\n\n")); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	}

	err := h.generationService.Generate(r.Context(), userID, req, onDelta)
	if err != nil {
		if streaming {
			// Headers are gone; nothing useful to send the client.
			log.Printf("ERROR [GenerateHandler] HandleGenerate mid-stream for UserID %s: %v", userID, err)
			return
		}
		log.Printf("ERROR [GenerateHandler] HandleGenerate for UserID %s: %v", userID, err)

		var statusErr *openai.StatusError
		switch {
		case errors.Is(err, services.ErrGenerateValidation):
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
		case errors.As(err, &statusErr):
			httputil.RespondError(w, statusErr.StatusCode, statusErr.Message)
		case errors.Is(err, context.Canceled):
			// Client went away before the first delta; nobody is listening.
		default:
			httputil.RespondError(w, http.StatusInternalServerError, "Generation failed due to an internal error")
		}
		return
	}

	if !streaming {
		// Upstream completed without producing any content. Send an empty
		// stream so the client sees a well-formed response.
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()
	}
}
