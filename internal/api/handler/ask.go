package handler

import (
	"encoding/json"
	"net/http"

	"github.com/aprendia/learning-assistant/internal/api/response"
	"github.com/aprendia/learning-assistant/internal/api/sse"
	"github.com/aprendia/learning-assistant/internal/domain"
	"github.com/aprendia/learning-assistant/internal/service"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

var validate = validator.New()

// AskHandler streams assistant answers over server-sent events
type AskHandler struct {
	assistant *service.AssistantService
}

// NewAskHandler creates a new ask handler
func NewAskHandler(assistant *service.AssistantService) *AskHandler {
	return &AskHandler{assistant: assistant}
}

// Ask validates the query, runs a conversation turn and streams the answer.
// Validation failures are rejected with a JSON 400 before any stream starts.
func (h *AskHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req domain.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			errors := make(map[string]string)
			for _, e := range validationErrors {
				field := e.Field()
				switch e.Tag() {
				case "required":
					errors[field] = "field is required"
				case "min":
					errors[field] = "must be at least " + e.Param() + " characters"
				case "max":
					errors[field] = "must be at most " + e.Param() + " characters"
				default:
					errors[field] = "validation failed on " + e.Tag()
				}
			}
			response.BadRequest(w, errors)
			return
		}
		response.BadRequest(w, err.Error())
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalError(w, "streaming not supported")
		return
	}

	events, err := h.assistant.ProcessQueryStream(r.Context(), req)
	if err != nil {
		response.InternalError(w, "failed to start conversation turn")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for ev := range events {
		frame, err := sse.Encode(ev)
		if err != nil {
			log.Error().Err(err).Msg("Failed to encode stream frame")
			return
		}
		if _, err := w.Write(frame); err != nil {
			// client went away, the orchestrator unwinds via request context
			return
		}
		flusher.Flush()
	}
}
