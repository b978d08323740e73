package orchestrator

import (
	"time"

	"github.com/dusk-indust/briefly/internal/config"
	"github.com/dusk-indust/briefly/internal/source"
)

// Timeouts bound each collaborator call. Zero values fall back to the
// config package defaults.
type Timeouts struct {
	Classify   time.Duration
	Fetch      time.Duration
	Synthesize time.Duration
}

func (t Timeouts) withDefaults() Timeouts {
	if t.Classify <= 0 {
		t.Classify = config.DefaultClassifyTimeout
	}
	if t.Fetch <= 0 {
		t.Fetch = config.DefaultFetchTimeout
	}
	if t.Synthesize <= 0 {
		t.Synthesize = config.DefaultSynthesizeTimeout
	}
	return t
}

// Config holds the per-source fetch parameters and timeouts for a Pipeline.
type Config struct {
	CodeReview source.CodeReviewParams
	Issues     source.IssueParams
	Notes      source.NotesParams
	Timeouts   Timeouts
}

// ConfigFromProject maps the file-level project config onto a pipeline Config.
func ConfigFromProject(pc config.ProjectConfig) Config {
	classify, fetch, synth := pc.Timeouts.Durations()
	src := pc.Sources
	return Config{
		CodeReview: source.CodeReviewParams{
			Owner: src.GitHub.Owner,
			Repo:  src.GitHub.Repo,
			State: src.GitHub.State,
		},
		Issues: source.IssueParams{
			Project:  src.Jira.Project,
			Assignee: src.Jira.Assignee,
			Statuses: src.Jira.Statuses,
			Limit:    src.Jira.Limit,
		},
		Notes: source.NotesParams{Title: src.Notes.Title},
		Timeouts: Timeouts{
			Classify:   classify,
			Fetch:      fetch,
			Synthesize: synth,
		},
	}
}
