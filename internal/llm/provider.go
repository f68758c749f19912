package llm

import "context"

// Provider defines the interface for streaming completion providers
type Provider interface {
	// Name returns the provider identifier
	Name() string

	// DefaultModel returns the default model
	DefaultModel() string

	// IsConfigured checks if provider has valid credentials
	IsConfigured() bool

	// StreamCompletion starts a streaming completion for the prompt.
	// Fragments are read from the returned stream until io.EOF.
	StreamCompletion(ctx context.Context, prompt string, model string) (CompletionStream, error)
}

// CompletionStream delivers completion text incrementally.
type CompletionStream interface {
	// Next returns the next text fragment. io.EOF signals a normally
	// exhausted stream; any other error aborts the turn.
	Next() (string, error)

	// Close releases the resources behind the stream. Idempotent; callers
	// must close even when the stream was not read to exhaustion.
	Close() error
}
