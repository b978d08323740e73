package orchestrator

import (
	"context"
	"time"

	"github.com/dusk-indust/briefly/internal/llm"
	"github.com/dusk-indust/briefly/internal/prompts"
)

// Synthesizer turns the merged state into the spoken briefing.
type Synthesizer struct {
	llm     llm.Completer
	timeout time.Duration
}

// NewSynthesizer creates a Synthesizer backed by c. A zero timeout means no
// deadline beyond ctx.
func NewSynthesizer(c llm.Completer, timeout time.Duration) *Synthesizer {
	return &Synthesizer{llm: c, timeout: timeout}
}

// Synthesize sends the digest to the briefing persona and returns its text
// as is. Length and style are left to the prompt.
func (s *Synthesizer) Synthesize(ctx context.Context, st *State) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	out, err := s.llm.Complete(ctx, llm.Prompt{
		System: prompts.Briefing(),
		User:   Digest(st),
	})
	if err != nil {
		return "", &SynthesisError{Err: err}
	}
	return out, nil
}
