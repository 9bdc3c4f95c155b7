// Package llm wraps the hosted OpenAI-compatible chat-completions API behind a
// single Complete operation with timeout, bounded retry, and a small error
// taxonomy the channels above can branch on.
package llm

import "context"

// Roles accepted on a turn.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one role-tagged turn submitted to or received from the model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Completer is the single capability the rest of the service depends on.
type Completer interface {
	Complete(ctx context.Context, turns []Message) (string, error)
}
