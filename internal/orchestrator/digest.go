package orchestrator

import (
	"fmt"
	"strings"

	"github.com/dusk-indust/briefly/internal/source"
)

// NoDataSentinel stands in for a section whose source was not planned,
// failed, or returned nothing.
const NoDataSentinel = "No data available."

const (
	maxDigestItems       = 5
	maxDescriptionLength = 200
)

// Digest renders the state as the synthesizer's input: the three labeled
// sections in fixed order, then the original request. Equal states always
// render identically.
func Digest(st *State) string {
	if st == nil {
		st = &State{}
	}
	var b strings.Builder
	writeSection(&b, source.CodeReview.Label(), renderCodeReview(st.CodeReview))
	writeSection(&b, source.Issues.Label(), renderIssues(st.Issues))
	writeSection(&b, source.Notes.Label(), renderNotes(st.Notes))
	b.WriteString("Request:\n")
	b.WriteString(strings.TrimSpace(st.Transcript))
	b.WriteString("\n")
	return b.String()
}

func writeSection(b *strings.Builder, label, body string) {
	if body == "" {
		body = NoDataSentinel
	}
	fmt.Fprintf(b, "%s:\n%s\n\n", label, body)
}

func renderCodeReview(r *source.CodeReviewResult) string {
	if r.Empty() {
		return ""
	}
	var lines []string
	for _, pr := range limit(r.PullRequests) {
		line := fmt.Sprintf("- #%d %s (%s)", pr.Number, pr.Title, pr.State)
		if pr.Author != "" {
			line += " by " + pr.Author
		}
		lines = append(lines, line)
	}
	lines = appendMore(lines, len(r.PullRequests))
	return strings.Join(lines, "\n")
}

func renderIssues(r *source.IssueResult) string {
	if r.Empty() {
		return ""
	}
	var lines []string
	for _, is := range limit(r.Issues) {
		line := fmt.Sprintf("- %s %s", is.Key, is.Title)
		if is.Status != "" {
			line += " [" + is.Status + "]"
		}
		var attrs []string
		if is.Priority != "" {
			attrs = append(attrs, "priority "+is.Priority)
		}
		if is.Assignee != "" {
			attrs = append(attrs, "assigned to "+is.Assignee)
		}
		if is.Parent != "" {
			attrs = append(attrs, "parent "+is.Parent)
		}
		if len(attrs) > 0 {
			line += " " + strings.Join(attrs, ", ")
		}
		if is.Description != "" {
			line += "\n  " + truncate(is.Description, maxDescriptionLength)
		}
		lines = append(lines, line)
	}
	lines = appendMore(lines, len(r.Issues))
	return strings.Join(lines, "\n")
}

func renderNotes(r *source.NotesResult) string {
	if r.Empty() {
		return ""
	}
	var b strings.Builder
	if r.Title != "" {
		b.WriteString(r.Title + "\n")
	}
	b.WriteString(strings.TrimSpace(r.Content))
	if len(r.Related) > 0 {
		b.WriteString("\nRelated: " + strings.Join(r.Related, ", "))
	}
	return b.String()
}

func limit[T any](items []T) []T {
	if len(items) > maxDigestItems {
		return items[:maxDigestItems]
	}
	return items
}

func appendMore(lines []string, total int) []string {
	if total > maxDigestItems {
		lines = append(lines, fmt.Sprintf("(%d more not shown)", total-maxDigestItems))
	}
	return lines
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n])) + "..."
}
