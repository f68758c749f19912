// Package memory provides the reference in-memory session store.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aprendia/learning-assistant/internal/domain"
	"github.com/google/uuid"
)

// Store keeps sessions in a process-local map. Callers get copies; writes go
// back through Update as a full replace (last writer wins).
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*domain.ConversationSession
}

// NewStore creates an empty in-memory store
func NewStore() *Store {
	return &Store{sessions: make(map[string]*domain.ConversationSession)}
}

// Create stores a new empty session, generating a v4 UUID when id is empty
func (s *Store) Create(ctx context.Context, id string) (*domain.ConversationSession, error) {
	if id == "" {
		id = uuid.New().String()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[id]; exists {
		return nil, fmt.Errorf("session %s: %w", id, domain.ErrSessionExists)
	}

	now := time.Now()
	session := &domain.ConversationSession{
		ID:        id,
		Messages:  []domain.Message{},
		CreatedAt: now,
		UpdatedAt: now,
		Metadata:  map[string]any{},
	}
	s.sessions[id] = session

	return copySession(session), nil
}

// Get returns a copy of the session, or (nil, nil) on a miss
func (s *Store) Get(ctx context.Context, id string) (*domain.ConversationSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, nil
	}
	return copySession(session), nil
}

// Update replaces the stored state keyed by session.ID
func (s *Store) Update(ctx context.Context, session *domain.ConversationSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.ID] = copySession(session)
	return nil
}

// Delete removes the session, reporting whether anything was removed
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return false, nil
	}
	delete(s.sessions, id)
	return true, nil
}

// SweepExpired removes sessions whose UpdatedAt is older than now-maxAge
func (s *Store) SweepExpired(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, session := range s.sessions {
		if session.UpdatedAt.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed, nil
}

// Len reports the number of stored sessions
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func copySession(session *domain.ConversationSession) *domain.ConversationSession {
	cp := *session
	cp.Messages = make([]domain.Message, len(session.Messages))
	copy(cp.Messages, session.Messages)
	if session.Metadata != nil {
		cp.Metadata = make(map[string]any, len(session.Metadata))
		for k, v := range session.Metadata {
			cp.Metadata[k] = v
		}
	}
	return &cp
}
