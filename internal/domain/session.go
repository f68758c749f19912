package domain

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrSessionNotFound is returned when an operation references a session
	// id that is not in the store.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionExists is returned when creating a session with an id that
	// is already taken.
	ErrSessionExists = errors.New("session already exists")
)

// ConversationSession is a conversation thread identified by an opaque id.
// The store owns the canonical copy; callers mutate a fetched copy and write
// it back through Update.
type ConversationSession struct {
	ID        string         `json:"session_id"`
	Messages  []Message      `json:"messages"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// AddMessage appends a message and bumps UpdatedAt. UpdatedAt is
// monotonically non-decreasing: appends never move it backwards.
func (s *ConversationSession) AddMessage(role MessageRole, content string, metadata map[string]any) {
	if metadata == nil {
		metadata = map[string]any{}
	}
	s.Messages = append(s.Messages, Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
		Metadata:  metadata,
	})
	if now := time.Now(); now.After(s.UpdatedAt) {
		s.UpdatedAt = now
	}
}

// History returns the conversation in client-facing form, in insertion order.
func (s *ConversationSession) History() []HistoryEntry {
	entries := make([]HistoryEntry, len(s.Messages))
	for i, msg := range s.Messages {
		entries[i] = HistoryEntry{
			Role:      msg.Role,
			Content:   msg.Content,
			Timestamp: msg.Timestamp,
		}
	}
	return entries
}

// SessionStore defines the interface for session persistence. The in-memory
// adapter is the reference implementation; Redis and Mongo adapters satisfy
// the same contract as durable drop-ins.
type SessionStore interface {
	// Create stores a new empty session. A v4 UUID is generated when id is
	// empty; ErrSessionExists is returned when the given id is taken.
	Create(ctx context.Context, id string) (*ConversationSession, error)

	// Get returns the session for id, or (nil, nil) when absent. A miss is
	// an expected result, not an error.
	Get(ctx context.Context, id string) (*ConversationSession, error)

	// Update replaces the stored state keyed by session.ID. Idempotent.
	Update(ctx context.Context, session *ConversationSession) error

	// Delete removes the session and reports whether anything was removed.
	// Idempotent; never errors on a missing id.
	Delete(ctx context.Context, id string) (bool, error)

	// SweepExpired removes every session whose UpdatedAt is older than
	// now-maxAge and returns the number removed. Safe to call concurrently
	// with reads and writes to unrelated sessions.
	SweepExpired(ctx context.Context, maxAge time.Duration) (int, error)
}
