package sweeper

import (
	"context"
	"testing"
	"time"

	"github.com/aprendia/learning-assistant/internal/repository/memory"
	"github.com/aprendia/learning-assistant/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweeper_RemovesExpiredSessions(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	sessions := service.NewSessionService(store)

	fresh, err := sessions.Create(ctx, "fresh")
	require.NoError(t, err)

	stale, err := sessions.Create(ctx, "stale")
	require.NoError(t, err)
	stale.UpdatedAt = time.Now().Add(-25 * time.Hour)
	require.NoError(t, store.Update(ctx, stale))

	sw := New(sessions, 24*time.Hour, 10*time.Millisecond)
	sw.Start(ctx)

	assert.Eventually(t, func() bool {
		return store.Len() == 1
	}, time.Second, 10*time.Millisecond)

	sw.Stop()

	got, err := store.Get(ctx, fresh.ID)
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestSweeper_StopTerminatesLoop(t *testing.T) {
	sessions := service.NewSessionService(memory.NewStore())

	sw := New(sessions, time.Hour, 10*time.Millisecond)
	sw.Start(context.Background())

	done := make(chan struct{})
	go func() {
		sw.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}

func TestSweeper_StopWithoutStart(t *testing.T) {
	sessions := service.NewSessionService(memory.NewStore())
	sw := New(sessions, time.Hour, time.Minute)

	// must not panic or block
	sw.Stop()
}
