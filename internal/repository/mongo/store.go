// Package mongo provides a MongoDB-backed session store.
package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/aprendia/learning-assistant/internal/config"
	"github.com/aprendia/learning-assistant/internal/domain"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const sessionCollection = "sessions"

// sessionDoc is the BSON shape of a stored session. The session id doubles
// as the document _id, which gives Create its uniqueness guarantee.
type sessionDoc struct {
	ID        string           `bson:"_id"`
	Messages  []domain.Message `bson:"messages"`
	CreatedAt time.Time        `bson:"created_at"`
	UpdatedAt time.Time        `bson:"updated_at"`
	Metadata  map[string]any   `bson:"metadata,omitempty"`
}

func toDoc(s *domain.ConversationSession) sessionDoc {
	return sessionDoc{
		ID:        s.ID,
		Messages:  s.Messages,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
		Metadata:  s.Metadata,
	}
}

func fromDoc(d sessionDoc) *domain.ConversationSession {
	return &domain.ConversationSession{
		ID:        d.ID,
		Messages:  d.Messages,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
		Metadata:  d.Metadata,
	}
}

// SessionStore is a MongoDB-backed session store satisfying the same
// contract as the in-memory reference adapter.
type SessionStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewSessionStore connects to MongoDB and returns a session store
func NewSessionStore(ctx context.Context, cfg config.MongoConfig) (*SessionStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &SessionStore{
		client:     client,
		collection: client.Database(cfg.Database).Collection(sessionCollection),
	}, nil
}

// Close disconnects the underlying client
func (s *SessionStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Create stores a new empty session, generating a v4 UUID when id is empty.
// The unique _id index detects duplicate ids.
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

	if _, err := s.collection.InsertOne(ctx, toDoc(session)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("session %s: %w", id, domain.ErrSessionExists)
		}
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

// Get returns the session for id, or (nil, nil) on a miss
func (s *SessionStore) Get(ctx context.Context, id string) (*domain.ConversationSession, error) {
	var doc sessionDoc
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return fromDoc(doc), nil
}

// Update replaces the stored state keyed by session.ID
func (s *SessionStore) Update(ctx context.Context, session *domain.ConversationSession) error {
	opts := options.Replace().SetUpsert(true)
	if _, err := s.collection.ReplaceOne(ctx, bson.M{"_id": session.ID}, toDoc(session), opts); err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	return nil
}

// Delete removes the session, reporting whether anything was removed
func (s *SessionStore) Delete(ctx context.Context, id string) (bool, error) {
	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("failed to delete session: %w", err)
	}
	return result.DeletedCount > 0, nil
}

// SweepExpired removes sessions whose updated_at is older than now-maxAge
func (s *SessionStore) SweepExpired(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)

	result, err := s.collection.DeleteMany(ctx, bson.M{"updated_at": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, fmt.Errorf("failed to sweep sessions: %w", err)
	}
	return int(result.DeletedCount), nil
}
