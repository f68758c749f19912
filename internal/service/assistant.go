package service

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"

	"github.com/aprendia/learning-assistant/internal/domain"
	"github.com/aprendia/learning-assistant/internal/extract"
	"github.com/aprendia/learning-assistant/internal/llm"
)

// EventType discriminates the events emitted while answering a query
type EventType string

const (
	// EventChunk carries one fragment of the assistant reply
	EventChunk EventType = "chunk"
	// EventComplete marks a fully answered and persisted turn
	EventComplete EventType = "complete"
	// EventError terminates a failed turn
	EventError EventType = "error"
)

// Event is one element of a streamed answer. Chunk events carry Content,
// complete events carry Metadata, error events carry Err.
type Event struct {
	Type      EventType
	SessionID string
	Content   string
	Metadata  map[string]any
	Err       error
}

// AssistantService orchestrates a conversation turn: session resolution,
// document extraction, prompt construction, streaming completion and
// history persistence.
type AssistantService struct {
	sessions  *SessionService
	registry  *llm.Registry
	extractor extract.Extractor
}

// NewAssistantService creates the conversation orchestrator
func NewAssistantService(sessions *SessionService, registry *llm.Registry, extractor extract.Extractor) *AssistantService {
	return &AssistantService{
		sessions:  sessions,
		registry:  registry,
		extractor: extractor,
	}
}

// degradedAttachmentNote is appended to the query when an attached document
// cannot be processed. The turn still runs against the bare query.
const degradedAttachmentNote = "\n\n(Note: an attached document could not be processed and was ignored.)"

// ProcessQueryStream answers a query against its session, emitting chunk
// events as the model produces text and a terminal complete or error event.
// Session resolution failures surface as a direct error before any event is
// emitted; everything after that point is reported on the channel. The
// channel is closed after the terminal event.
func (s *AssistantService) ProcessQueryStream(ctx context.Context, req domain.AskRequest) (<-chan Event, error) {
	session, err := s.sessions.GetOrCreate(ctx, req.SessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve session: %w", err)
	}

	events := make(chan Event)
	go s.run(ctx, session.ID, req, events)
	return events, nil
}

func (s *AssistantService) run(ctx context.Context, sessionID string, req domain.AskRequest, events chan<- Event) {
	defer close(events)

	query := s.composeQuery(sessionID, req)

	session, err := s.sessions.AppendMessage(ctx, sessionID, domain.RoleUser, query, req.Metadata)
	if err != nil {
		s.emit(ctx, events, Event{Type: EventError, SessionID: sessionID, Err: err})
		return
	}

	prompt := llm.BuildConversationContext(session.History(), query)

	provider, err := s.registry.Get("")
	if err != nil {
		s.emit(ctx, events, Event{Type: EventError, SessionID: sessionID, Err: err})
		return
	}

	stream, err := provider.StreamCompletion(ctx, prompt, "")
	if err != nil {
		s.emit(ctx, events, Event{Type: EventError, SessionID: sessionID, Err: err})
		return
	}
	// an abandoned turn must still release the stream's resources
	defer stream.Close()

	var reply string
	for {
		fragment, err := stream.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			// the partial reply is discarded, only full turns are persisted
			s.emit(ctx, events, Event{Type: EventError, SessionID: sessionID, Err: err})
			return
		}
		if fragment == "" {
			continue
		}

		reply += fragment
		if !s.emit(ctx, events, Event{Type: EventChunk, SessionID: sessionID, Content: fragment}) {
			return
		}
	}

	session, err = s.sessions.AppendMessage(ctx, sessionID, domain.RoleAssistant, reply, map[string]any{
		"provider": provider.Name(),
		"model":    provider.DefaultModel(),
	})
	if err != nil {
		s.emit(ctx, events, Event{Type: EventError, SessionID: sessionID, Err: err})
		return
	}

	s.emit(ctx, events, Event{
		Type:      EventComplete,
		SessionID: sessionID,
		Metadata: map[string]any{
			"model":               provider.DefaultModel(),
			"conversation_length": len(session.Messages),
		},
	})
}

// composeQuery folds an attached document into the query. Extraction
// failures degrade the turn to the bare query instead of aborting it.
func (s *AssistantService) composeQuery(sessionID string, req domain.AskRequest) string {
	if req.File == nil {
		return req.Query
	}

	data, err := extract.DecodeContent(req.File.Content)
	if err != nil {
		log.Warn().Err(err).Str("session_id", sessionID).Msg("Failed to decode attachment")
		return req.Query + degradedAttachmentNote
	}

	text, err := s.extractor.Extract(data, req.File.MimeType)
	if err != nil || text == "" {
		log.Warn().Err(err).
			Str("session_id", sessionID).
			Str("mime_type", req.File.MimeType).
			Msg("Failed to extract attachment text")
		return req.Query + degradedAttachmentNote
	}

	return llm.BuildDocumentQuery(req.Query, text)
}

// emit delivers an event unless the consumer is gone
func (s *AssistantService) emit(ctx context.Context, events chan<- Event, ev Event) bool {
	select {
	case events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
