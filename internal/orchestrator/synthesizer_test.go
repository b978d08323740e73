package orchestrator

import (
	"context"
	"errors"
	"testing"

	"github.com/dusk-indust/briefly/internal/prompts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynthesizer_SendsDigest(t *testing.T) {
	fc := replying("  You have two PRs out.  ")
	st := &State{Transcript: "Prep me", CodeReview: samplePullRequests()}

	got, err := NewSynthesizer(fc, 0).Synthesize(context.Background(), st)
	require.NoError(t, err)
	assert.Equal(t, "  You have two PRs out.  ", got, "text is returned as is")

	require.Equal(t, 1, fc.calls())
	p := fc.lastPrompt()
	assert.Equal(t, prompts.Briefing(), p.System)
	assert.Equal(t, Digest(st), p.User)
}

func TestSynthesizer_IdenticalPromptsForIdenticalState(t *testing.T) {
	fc := replying("ok")
	s := NewSynthesizer(fc, 0)
	st := &State{Transcript: "Prep me", Issues: sampleIssues(), Notes: sampleNotes()}

	_, err := s.Synthesize(context.Background(), st)
	require.NoError(t, err)
	_, err = s.Synthesize(context.Background(), st)
	require.NoError(t, err)

	require.Len(t, fc.prompts, 2)
	assert.Equal(t, fc.prompts[0], fc.prompts[1])
}

func TestSynthesizer_Failure(t *testing.T) {
	cause := errors.New("model overloaded")
	_, err := NewSynthesizer(failing(cause), 0).Synthesize(context.Background(), &State{Transcript: "x"})
	require.Error(t, err)

	var serr *SynthesisError
	require.ErrorAs(t, err, &serr)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "synthesis failed: model overloaded", err.Error())
}
