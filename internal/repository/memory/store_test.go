package memory

import (
	"context"
	"testing"
	"time"

	"github.com/aprendia/learning-assistant/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Create(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	t.Run("generates id when empty", func(t *testing.T) {
		session, err := store.Create(ctx, "")
		require.NoError(t, err)
		assert.NotEmpty(t, session.ID)
		assert.Empty(t, session.Messages)
		assert.False(t, session.CreatedAt.IsZero())
		assert.Equal(t, session.CreatedAt, session.UpdatedAt)
	})

	t.Run("honors explicit id", func(t *testing.T) {
		session, err := store.Create(ctx, "user-42")
		require.NoError(t, err)
		assert.Equal(t, "user-42", session.ID)
	})

	t.Run("duplicate id rejected", func(t *testing.T) {
		_, err := store.Create(ctx, "user-42")
		assert.ErrorIs(t, err, domain.ErrSessionExists)
	})
}

func TestStore_Get(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	t.Run("miss is not an error", func(t *testing.T) {
		session, err := store.Get(ctx, "nope")
		require.NoError(t, err)
		assert.Nil(t, session)
	})

	t.Run("returns an isolated copy", func(t *testing.T) {
		created, err := store.Create(ctx, "s1")
		require.NoError(t, err)

		created.AddMessage(domain.RoleUser, "hello", nil)

		fetched, err := store.Get(ctx, "s1")
		require.NoError(t, err)
		assert.Empty(t, fetched.Messages, "mutating a fetched copy must not touch stored state")
	})
}

func TestStore_Update(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	session, err := store.Create(ctx, "s1")
	require.NoError(t, err)

	session.AddMessage(domain.RoleUser, "hello", nil)
	session.AddMessage(domain.RoleAssistant, "hi there", nil)
	require.NoError(t, store.Update(ctx, session))

	fetched, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, fetched.Messages, 2)
	assert.Equal(t, domain.RoleUser, fetched.Messages[0].Role)
	assert.Equal(t, "hi there", fetched.Messages[1].Content)
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	_, err := store.Create(ctx, "s1")
	require.NoError(t, err)

	removed, err := store.Delete(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, removed)

	// repeat delete is a no-op
	removed, err = store.Delete(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, removed)

	session, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestStore_SweepExpired(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	fresh, err := store.Create(ctx, "fresh")
	require.NoError(t, err)

	stale, err := store.Create(ctx, "stale")
	require.NoError(t, err)
	stale.UpdatedAt = time.Now().Add(-25 * time.Hour)
	require.NoError(t, store.Update(ctx, stale))

	removed, err := store.SweepExpired(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	got, err := store.Get(ctx, fresh.ID)
	require.NoError(t, err)
	assert.NotNil(t, got, "fresh session must survive the sweep")

	got, err = store.Get(ctx, stale.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, 1, store.Len())
}
