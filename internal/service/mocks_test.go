package service

import (
	"context"
	"io"
	"sync/atomic"
	"time"

	"github.com/aprendia/learning-assistant/internal/domain"
	"github.com/aprendia/learning-assistant/internal/llm"
	"github.com/stretchr/testify/mock"
)

// MockSessionStore mocks the domain.SessionStore interface
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) Create(ctx context.Context, id string) (*domain.ConversationSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ConversationSession), args.Error(1)
}

func (m *MockSessionStore) Get(ctx context.Context, id string) (*domain.ConversationSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ConversationSession), args.Error(1)
}

func (m *MockSessionStore) Update(ctx context.Context, session *domain.ConversationSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionStore) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockSessionStore) SweepExpired(ctx context.Context, maxAge time.Duration) (int, error) {
	args := m.Called(ctx, maxAge)
	return args.Int(0), args.Error(1)
}

// stubProvider yields a scripted sequence of fragments, then failErr or EOF.
// With endless set the stream repeats its last fragment forever.
type stubProvider struct {
	fragments []string
	failErr   error
	startErr  error
	endless   bool

	lastPrompt string
	lastStream *stubStream
}

func (p *stubProvider) Name() string         { return "stub" }
func (p *stubProvider) DefaultModel() string { return "stub-model" }
func (p *stubProvider) IsConfigured() bool   { return true }

func (p *stubProvider) StreamCompletion(ctx context.Context, prompt string, model string) (llm.CompletionStream, error) {
	if p.startErr != nil {
		return nil, p.startErr
	}
	p.lastPrompt = prompt
	p.lastStream = &stubStream{fragments: p.fragments, failErr: p.failErr, endless: p.endless}
	return p.lastStream, nil
}

type stubStream struct {
	fragments []string
	failErr   error
	endless   bool
	pos       int
	closed    atomic.Bool
}

func (s *stubStream) Next() (string, error) {
	if s.pos < len(s.fragments) {
		frag := s.fragments[s.pos]
		s.pos++
		return frag, nil
	}
	if s.endless && len(s.fragments) > 0 {
		return s.fragments[len(s.fragments)-1], nil
	}
	if s.failErr != nil {
		return "", s.failErr
	}
	return "", io.EOF
}

func (s *stubStream) Close() error {
	s.closed.Store(true)
	return nil
}
