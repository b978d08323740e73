package orchestrator

import "github.com/dusk-indust/briefly/internal/source"

// State is the per-request record threaded through the steps. Each fetch
// goroutine writes only its own slot, so no merge step is needed; a nil
// slot means the source was not planned or its fetch failed.
type State struct {
	Transcript     string
	Classification Classification

	CodeReview *source.CodeReviewResult
	Issues     *source.IssueResult
	Notes      *source.NotesResult

	Summary string
}
