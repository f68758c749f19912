package domain

import "time"

// MessageRole represents the sender of a message
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Message is a single entry in a conversation. Messages are created once and
// never mutated; a session only ever appends.
type Message struct {
	Role      MessageRole    `json:"role"`
	Content   string         `json:"content"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// HistoryEntry is the client-facing projection of a message.
type HistoryEntry struct {
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp"`
}
