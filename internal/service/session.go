package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aprendia/learning-assistant/internal/domain"
)

// SessionService manages conversation session lifecycle over a pluggable
// store. All mutations of a given session id are serialized through a
// per-key lock, so get-or-create never race-creates and concurrent appends
// never lose updates regardless of backend.
type SessionService struct {
	store domain.SessionStore
	keys  sync.Map // session id -> *sync.Mutex
}

// NewSessionService creates a session service over the given store
func NewSessionService(store domain.SessionStore) *SessionService {
	return &SessionService{store: store}
}

func (s *SessionService) lockKey(id string) *sync.Mutex {
	mu, _ := s.keys.LoadOrStore(id, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// Create provisions a new session, generating an id when none is given.
// Propagates domain.ErrSessionExists for a duplicate explicit id.
func (s *SessionService) Create(ctx context.Context, id string) (*domain.ConversationSession, error) {
	if id == "" {
		return s.store.Create(ctx, "")
	}

	mu := s.lockKey(id)
	mu.Lock()
	defer mu.Unlock()

	return s.store.Create(ctx, id)
}

// GetOrCreate returns the session for id when it resolves, otherwise creates
// one with exactly that id. An empty id always creates a fresh session.
func (s *SessionService) GetOrCreate(ctx context.Context, id string) (*domain.ConversationSession, error) {
	if id == "" {
		return s.store.Create(ctx, "")
	}

	mu := s.lockKey(id)
	mu.Lock()
	defer mu.Unlock()

	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session != nil {
		return session, nil
	}

	return s.store.Create(ctx, id)
}

// AppendMessage appends a message to the session and persists it, returning
// the updated session. Fails with domain.ErrSessionNotFound for an unknown id.
func (s *SessionService) AppendMessage(ctx context.Context, id string, role domain.MessageRole, content string, metadata map[string]any) (*domain.ConversationSession, error) {
	mu := s.lockKey(id)
	mu.Lock()
	defer mu.Unlock()

	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("session %s: %w", id, domain.ErrSessionNotFound)
	}

	session.AddMessage(role, content, metadata)
	if err := s.store.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to persist message: %w", err)
	}
	return session, nil
}

// History returns the conversation history in insertion order. Fails with
// domain.ErrSessionNotFound for an unknown id.
func (s *SessionService) History(ctx context.Context, id string) ([]domain.HistoryEntry, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("session %s: %w", id, domain.ErrSessionNotFound)
	}
	return session.History(), nil
}

// Delete removes a session, reporting whether anything was removed. The
// per-key mutex is kept: evicting it could hand a concurrent recreate a
// different lock for the same id.
func (s *SessionService) Delete(ctx context.Context, id string) (bool, error) {
	mu := s.lockKey(id)
	mu.Lock()
	defer mu.Unlock()

	return s.store.Delete(ctx, id)
}

// SweepExpired evicts sessions idle longer than maxAge, returning the count
func (s *SessionService) SweepExpired(ctx context.Context, maxAge time.Duration) (int, error) {
	return s.store.SweepExpired(ctx, maxAge)
}
