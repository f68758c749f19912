package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aprendia/learning-assistant/internal/api/response"
	"github.com/aprendia/learning-assistant/internal/domain"
	"github.com/aprendia/learning-assistant/internal/service"
	"github.com/go-chi/chi/v5"
)

// SessionHandler handles session lifecycle endpoints
type SessionHandler struct {
	sessions *service.SessionService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions *service.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// Create creates a new session. The body is optional; a client-chosen id
// may be supplied, otherwise one is generated.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"session_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// Optional body
	}

	session, err := h.sessions.Create(r.Context(), req.SessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionExists) {
			response.Conflict(w, "session already exists")
			return
		}
		response.InternalError(w, "failed to create session")
		return
	}

	response.Created(w, map[string]string{
		"session_id": session.ID,
		"message":    "Session created",
	})
}

// GetHistory returns the conversation history for a session
func (h *SessionHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	history, err := h.sessions.History(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			response.NotFound(w, "session not found")
			return
		}
		response.InternalError(w, "failed to fetch session history")
		return
	}

	if history == nil {
		history = []domain.HistoryEntry{}
	}

	response.OK(w, map[string]any{
		"session_id": sessionID,
		"history":    history,
	})
}

// Delete deletes a session
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	removed, err := h.sessions.Delete(r.Context(), sessionID)
	if err != nil {
		response.InternalError(w, "failed to delete session")
		return
	}
	if !removed {
		response.NotFound(w, "session not found")
		return
	}

	response.OK(w, map[string]string{
		"session_id": sessionID,
		"message":    "Session deleted",
	})
}
