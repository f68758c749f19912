package gemini

import (
	"context"
	"fmt"
	"io"

	"github.com/aprendia/learning-assistant/internal/config"
	"github.com/aprendia/learning-assistant/internal/llm"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

type Provider struct {
	apiKey string
	model  string
}

func NewProvider(cfg config.GeminiConfig) *Provider {
	return &Provider{
		apiKey: cfg.APIKey,
		model:  cfg.Model,
	}
}

func (p *Provider) Name() string {
	return "gemini"
}

func (p *Provider) DefaultModel() string {
	if p.model != "" {
		return p.model
	}
	return "gemini-2.0-flash"
}

func (p *Provider) IsConfigured() bool {
	return p.apiKey != ""
}

// StreamCompletion starts a streaming generation. The underlying client
// stays open until the returned stream is exhausted or fails.
func (p *Provider) StreamCompletion(ctx context.Context, prompt string, model string) (llm.CompletionStream, error) {
	if !p.IsConfigured() {
		return nil, fmt.Errorf("gemini provider is not configured (missing API key)")
	}

	if model == "" {
		model = p.DefaultModel()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(p.apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	generativeModel := client.GenerativeModel(model)
	iter := generativeModel.GenerateContentStream(ctx, genai.Text(prompt))

	return &completionStream{client: client, iter: iter}, nil
}

type completionStream struct {
	client *genai.Client
	iter   *genai.GenerateContentResponseIterator
	closed bool
}

// Close releases the underlying client. Safe to call more than once, and
// required when a turn is abandoned before the iterator is exhausted.
func (s *completionStream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.client.Close()
}

func (s *completionStream) Next() (string, error) {
	resp, err := s.iter.Next()
	if err == iterator.Done {
		s.Close()
		return "", io.EOF
	}
	if err != nil {
		s.Close()
		return "", fmt.Errorf("gemini generation error: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", nil
	}

	var text string
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text += string(t)
		}
	}
	return text, nil
}
