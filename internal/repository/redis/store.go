package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aprendia/learning-assistant/internal/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

// SessionStore is a Redis-backed session store. Sessions are stored as JSON
// under session:<id>; it satisfies the same contract as the in-memory
// reference adapter.
type SessionStore struct {
	client *Client
}

// NewSessionStore creates a Redis-backed session store
func NewSessionStore(client *Client) *SessionStore {
	return &SessionStore{client: client}
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

// Create stores a new empty session, generating a v4 UUID when id is empty.
// SetNX guards against duplicate ids under concurrent creators.
func (s *SessionStore) Create(ctx context.Context, id string) (*domain.ConversationSession, error) {
	if id == "" {
		id = uuid.New().String()
	}

	now := time.Now()
	session := &domain.ConversationSession{
		ID:        id,
		Messages:  []domain.Message{},
		CreatedAt: now,
		UpdatedAt: now,
		Metadata:  map[string]any{},
	}

	data, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session: %w", err)
	}

	ok, err := s.client.rdb.SetNX(ctx, sessionKey(id), data, 0).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, domain.ErrSessionExists)
	}

	return session, nil
}

// Get returns the session for id, or (nil, nil) on a miss
func (s *SessionStore) Get(ctx context.Context, id string) (*domain.ConversationSession, error) {
	data, err := s.client.rdb.Get(ctx, sessionKey(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session domain.ConversationSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

// Update replaces the stored state keyed by session.ID
func (s *SessionStore) Update(ctx context.Context, session *domain.ConversationSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	return s.client.rdb.Set(ctx, sessionKey(session.ID), data, 0).Err()
}

// Delete removes the session, reporting whether anything was removed
func (s *SessionStore) Delete(ctx context.Context, id string) (bool, error) {
	removed, err := s.client.rdb.Del(ctx, sessionKey(id)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to delete session: %w", err)
	}
	return removed > 0, nil
}

// SweepExpired scans all session keys and removes those whose UpdatedAt is
// older than now-maxAge
func (s *SessionStore) SweepExpired(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)
	pattern := sessionKeyPrefix + "*"

	var cursor uint64
	removed := 0

	for {
		keys, nextCursor, err := s.client.rdb.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return removed, fmt.Errorf("failed to scan sessions: %w", err)
		}

		for _, key := range keys {
			data, err := s.client.rdb.Get(ctx, key).Bytes()
			if err != nil {
				continue // deleted between scan and fetch
			}

			var session domain.ConversationSession
			if err := json.Unmarshal(data, &session); err != nil {
				continue
			}

			if session.UpdatedAt.Before(cutoff) {
				count, err := s.client.rdb.Del(ctx, key).Result()
				if err != nil {
					return removed, fmt.Errorf("failed to delete expired session: %w", err)
				}
				removed += int(count)
			}
		}

		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}

	return removed, nil
}
