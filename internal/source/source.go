// Package source holds the three data-source fetchers a briefing can draw
// from, and the flat result records they normalize provider output into.
package source

import "context"

// ID identifies a data source.
type ID string

const (
	CodeReview ID = "code_review"
	Issues     ID = "issues"
	Notes      ID = "notes"
)

// All returns every source in the fixed order used for plans, steps and
// digests.
func All() []ID {
	return []ID{CodeReview, Issues, Notes}
}

// Label is the human-readable section title for a source.
func (id ID) Label() string {
	switch id {
	case CodeReview:
		return "Code review"
	case Issues:
		return "Issues"
	case Notes:
		return "Meeting notes"
	default:
		return string(id)
	}
}

// CodeReviewParams selects the repository to list pull requests for.
type CodeReviewParams struct {
	Owner string
	Repo  string
	State string // "open", "closed" or "all"
}

// IssueParams filters issue-tracker results.
type IssueParams struct {
	Project  string
	Assignee string
	Statuses []string
	Limit    int
}

// NotesParams names the notes page to read.
type NotesParams struct {
	Title string
}

// CodeReviewFetcher retrieves pull-request activity.
type CodeReviewFetcher interface {
	Fetch(ctx context.Context, p CodeReviewParams) (*CodeReviewResult, error)
}

// IssueFetcher retrieves issue-tracker status.
type IssueFetcher interface {
	Fetch(ctx context.Context, p IssueParams) (*IssueResult, error)
}

// NotesFetcher retrieves meeting notes.
type NotesFetcher interface {
	Fetch(ctx context.Context, p NotesParams) (*NotesResult, error)
}

// PullRequest is one normalized pull request.
type PullRequest struct {
	Number    int    `json:"number"`
	Title     string `json:"title"`
	State     string `json:"state"`
	Author    string `json:"author,omitempty"`
	URL       string `json:"url,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// CodeReviewResult is the code-review slot payload.
type CodeReviewResult struct {
	PullRequests []PullRequest `json:"pullRequests"`
}

// Empty reports whether there is nothing to show.
func (r *CodeReviewResult) Empty() bool {
	return r == nil || len(r.PullRequests) == 0
}

// Issue is a flat issue-tracker record.
type Issue struct {
	Key         string `json:"key"`
	Title       string `json:"title"`
	Status      string `json:"status,omitempty"`
	Priority    string `json:"priority,omitempty"`
	Assignee    string `json:"assignee,omitempty"`
	Description string `json:"description,omitempty"`
	Parent      string `json:"parent,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
	URL         string `json:"url,omitempty"`
}

// IssueResult is the issue-tracker slot payload.
type IssueResult struct {
	Issues []Issue `json:"issues"`
}

// Empty reports whether there is nothing to show.
func (r *IssueResult) Empty() bool {
	return r == nil || len(r.Issues) == 0
}

// NotesResult is the notes slot payload.
type NotesResult struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Related []string `json:"related,omitempty"`
}

// Empty reports whether there is nothing to show.
func (r *NotesResult) Empty() bool {
	return r == nil || r.Content == ""
}
