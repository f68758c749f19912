// Package sweeper evicts idle conversation sessions in the background.
package sweeper

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/aprendia/learning-assistant/internal/service"
)

// Sweeper periodically removes sessions that have been idle longer than
// maxAge. A failed pass is logged and retried on the next tick.
type Sweeper struct {
	sessions *service.SessionService
	maxAge   time.Duration
	interval time.Duration
	cancel   context.CancelFunc
	done     chan struct{}
}

// New creates a sweeper over the given session service
func New(sessions *service.SessionService, maxAge, interval time.Duration) *Sweeper {
	return &Sweeper{
		sessions: sessions,
		maxAge:   maxAge,
		interval: interval,
	}
}

// Start launches the background sweep loop
func (s *Sweeper) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	go s.loop(ctx)

	log.Info().
		Dur("interval", s.interval).
		Dur("max_age", s.maxAge).
		Msg("Session sweeper started")
}

// Stop cancels the loop and waits for the current pass to finish
func (s *Sweeper) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	log.Info().Msg("Session sweeper stopped")
}

func (s *Sweeper) loop(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	removed, err := s.sessions.SweepExpired(ctx, s.maxAge)
	if err != nil {
		log.Error().Err(err).Msg("Session sweep failed")
		return
	}
	if removed > 0 {
		log.Info().Int("removed", removed).Msg("Expired sessions removed")
	}
}
