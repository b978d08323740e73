package orchestrator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dusk-indust/briefly/internal/llm"
	"github.com/dusk-indust/briefly/internal/logging"
	"github.com/dusk-indust/briefly/internal/prompts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCompleter records prompts and answers via complete.
type fakeCompleter struct {
	mu       sync.Mutex
	prompts  []llm.Prompt
	complete func(ctx context.Context, p llm.Prompt) (string, error)
}

func (f *fakeCompleter) Complete(ctx context.Context, p llm.Prompt) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, p)
	f.mu.Unlock()
	return f.complete(ctx, p)
}

func (f *fakeCompleter) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

func (f *fakeCompleter) lastPrompt() llm.Prompt {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.prompts[len(f.prompts)-1]
}

func replying(text string) *fakeCompleter {
	return &fakeCompleter{complete: func(context.Context, llm.Prompt) (string, error) {
		return text, nil
	}}
}

func failing(err error) *fakeCompleter {
	return &fakeCompleter{complete: func(context.Context, llm.Prompt) (string, error) {
		return "", err
	}}
}

func TestCoordinator_Classify(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Classification
	}{
		{
			name: "all true",
			raw:  `{"needs_code_review": true, "needs_issues": true, "needs_notes": true}`,
			want: Classification{CodeReview: true, Issues: true, Notes: true},
		},
		{
			name: "code review only",
			raw:  `{"needs_code_review": true, "needs_issues": false, "needs_notes": false}`,
			want: Classification{CodeReview: true},
		},
		{
			name: "fenced json",
			raw:  "```json\n{\"needs_code_review\": false, \"needs_issues\": true, \"needs_notes\": false}\n```",
			want: Classification{Issues: true},
		},
		{
			name: "bare fence",
			raw:  "```\n{\"needs_code_review\": false, \"needs_issues\": false, \"needs_notes\": true}\n```",
			want: Classification{Notes: true},
		},
		{name: "not json", raw: "Sure! You need everything."},
		{name: "json in prose", raw: `Here you go: {"needs_code_review": true, "needs_issues": true, "needs_notes": true}`},
		{name: "missing key", raw: `{"needs_code_review": true, "needs_issues": true}`},
		{name: "extra key", raw: `{"needs_code_review": true, "needs_issues": true, "needs_notes": true, "needs_calendar": true}`},
		{name: "string flag", raw: `{"needs_code_review": "true", "needs_issues": false, "needs_notes": false}`},
		{name: "array", raw: `[true, true, true]`},
		{name: "empty", raw: ""},
		{name: "legacy keys", raw: `{"is_git": true, "is_jira": true, "is_meeting_notes": true}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCoordinator(replying(tt.raw), logging.Discard(), 0)
			assert.Equal(t, tt.want, c.Classify(context.Background(), "Prep me for standup"))
		})
	}
}

func TestCoordinator_SendsClassifierPrompt(t *testing.T) {
	fc := replying(`{"needs_code_review": false, "needs_issues": false, "needs_notes": false}`)
	NewCoordinator(fc, logging.Discard(), 0).Classify(context.Background(), "What's blocking us?")

	require.Equal(t, 1, fc.calls())
	p := fc.lastPrompt()
	assert.Equal(t, prompts.Classifier(), p.System)
	assert.Equal(t, "What's blocking us?", p.User)
}

func TestCoordinator_CompletionErrorIsAllFalse(t *testing.T) {
	c := NewCoordinator(failing(errors.New("rate limited")), logging.Discard(), 0)
	assert.Equal(t, Classification{}, c.Classify(context.Background(), "Prep me"))
}

func TestCoordinator_Timeout(t *testing.T) {
	fc := &fakeCompleter{complete: func(ctx context.Context, _ llm.Prompt) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}}
	c := NewCoordinator(fc, logging.Discard(), 20*time.Millisecond)

	start := time.Now()
	got := c.Classify(context.Background(), "Prep me")
	assert.Equal(t, Classification{}, got)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestParseClassification_Error(t *testing.T) {
	_, err := ParseClassification(`{"needs_code_review": true}`)
	require.Error(t, err)

	var perr *ClassificationParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, `{"needs_code_review": true}`, perr.Raw)
	assert.Contains(t, err.Error(), "coordinator: invalid classification")
}

func TestClassification_JSONKeys(t *testing.T) {
	cls, err := ParseClassification(`{"needs_code_review": true, "needs_issues": false, "needs_notes": true}`)
	require.NoError(t, err)
	assert.True(t, cls.CodeReview)
	assert.False(t, cls.Issues)
	assert.True(t, cls.Notes)
}
