// Package llm is the text-completion boundary. Callers hand over a system
// and a user message and get generated text back.
package llm

import "context"

// Prompt is a single system + user exchange.
type Prompt struct {
	System string
	User   string
}

// Completer generates text for a prompt. Implementations must be safe for
// concurrent use across requests.
type Completer interface {
	Complete(ctx context.Context, p Prompt) (string, error)
}

// CompleterFunc adapts a plain function to the Completer interface.
type CompleterFunc func(ctx context.Context, p Prompt) (string, error)

// Complete calls f(ctx, p).
func (f CompleterFunc) Complete(ctx context.Context, p Prompt) (string, error) {
	return f(ctx, p)
}
