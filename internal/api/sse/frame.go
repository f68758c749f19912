// Package sse maps orchestrator events onto server-sent event frames.
package sse

import (
	"encoding/json"
	"fmt"

	"github.com/aprendia/learning-assistant/internal/service"
)

// ChunkFrame carries one fragment of assistant text
type ChunkFrame struct {
	MimeType  string `json:"mime_type"`
	Data      string `json:"data"`
	SessionID string `json:"session_id"`
}

// CompleteFrame closes a successful turn
type CompleteFrame struct {
	TurnComplete bool           `json:"turn_complete"`
	Interrupted  *bool          `json:"interrupted"`
	SessionID    string         `json:"session_id"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// ErrorFrame closes a failed turn
type ErrorFrame struct {
	Error        bool   `json:"error"`
	Message      string `json:"message"`
	TurnComplete bool   `json:"turn_complete"`
	Interrupted  bool   `json:"interrupted"`
}

// Encode renders an orchestrator event as a wire-ready SSE frame,
// "data: <json>" plus the blank separator line.
func Encode(ev service.Event) ([]byte, error) {
	var payload any

	switch ev.Type {
	case service.EventChunk:
		payload = ChunkFrame{
			MimeType:  "text/plain",
			Data:      ev.Content,
			SessionID: ev.SessionID,
		}
	case service.EventComplete:
		payload = CompleteFrame{
			TurnComplete: true,
			Interrupted:  nil,
			SessionID:    ev.SessionID,
			Metadata:     ev.Metadata,
		}
	case service.EventError:
		msg := "internal error"
		if ev.Err != nil {
			msg = ev.Err.Error()
		}
		payload = ErrorFrame{
			Error:        true,
			Message:      msg,
			TurnComplete: true,
			Interrupted:  true,
		}
	default:
		return nil, fmt.Errorf("unknown event type: %s", ev.Type)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode frame: %w", err)
	}

	frame := make([]byte, 0, len(body)+8)
	frame = append(frame, "data: "...)
	frame = append(frame, body...)
	frame = append(frame, "\n\n"...)
	return frame, nil
}
