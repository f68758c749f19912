package llm

import (
	"fmt"
	"strings"

	"github.com/aprendia/learning-assistant/internal/domain"
)

// maxContextMessages bounds how much history is rendered into a prompt.
// Older messages are evicted, newest kept.
const maxContextMessages = 10

const (
	previousContextMarker = "Previous conversation context:"
	currentQuestionMarker = "Current question:"
)

// BuildConversationContext renders bounded history plus the current query
// into a single prompt. With an empty history, or a window that collapses to
// one message, the query goes through unwrapped. Otherwise all but the most
// recent windowed message become the "previous context" block; the current
// slot belongs to the new query, not to a leftover history item.
func BuildConversationContext(history []domain.HistoryEntry, currentQuery string) string {
	if len(history) == 0 {
		return currentQuery
	}

	recent := history
	if len(recent) > maxContextMessages {
		recent = recent[len(recent)-maxContextMessages:]
	}

	if len(recent) <= 1 {
		return currentQuery
	}

	var parts []string
	parts = append(parts, previousContextMarker)
	for _, msg := range recent[:len(recent)-1] {
		parts = append(parts, fmt.Sprintf("%s: %s", roleLabel(msg.Role), msg.Content))
	}
	parts = append(parts, "\n"+currentQuestionMarker)
	parts = append(parts, currentQuery)

	return strings.Join(parts, "\n")
}

func roleLabel(role domain.MessageRole) string {
	if role == domain.RoleUser {
		return "User"
	}
	return "Assistant"
}

const documentQueryTemplate = `Analyze the attached document together with the user's request.

Document content:
%s

User request: %s

Provide structured recommendations based on the document: strengths it shows, skill gaps to close, and concrete next steps toward the user's career and learning goals.`

// BuildDocumentQuery wraps a query and extracted document text in the
// recommendation template sent to the completion provider.
func BuildDocumentQuery(query, documentText string) string {
	return fmt.Sprintf(documentQueryTemplate, documentText, query)
}
