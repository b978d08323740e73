package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifier_NamesEveryFlag(t *testing.T) {
	p := Classifier()
	for _, key := range []string{"needs_code_review", "needs_issues", "needs_notes"} {
		assert.Contains(t, p, key)
	}
	assert.Contains(t, p, `"Prep me for standup" -> all true`)
}

func TestBriefing_Persona(t *testing.T) {
	p := Briefing()
	assert.Contains(t, p, "second person")
	assert.Contains(t, p, "120 and 180 words")
	assert.Contains(t, p, "No data available.")
	assert.NotEqual(t, byte('\n'), p[len(p)-1], "prompt is trimmed")
}
