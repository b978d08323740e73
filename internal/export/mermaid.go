// Package export renders the local notes graph for people and tools outside
// the briefing pipeline.
package export

import (
	"context"
	"fmt"
	"strings"

	"github.com/dusk-indust/briefly/internal/notes"
)

// maxLabelLength caps node labels so long page titles keep the diagram legible.
const maxLabelLength = 40

// GenerateMermaid produces a Mermaid graph LR diagram of the notes graph.
// Every page is a node; page links become arrows.
func GenerateMermaid(ctx context.Context, store notes.Store) (string, error) {
	titles, err := store.Titles(ctx)
	if err != nil {
		return "", fmt.Errorf("list pages: %w", err)
	}

	// Mermaid IDs must be alphanumeric, so titles map to N0, N1, ...
	nodeIDs := make(map[string]string, len(titles))
	for i, title := range titles {
		nodeIDs[title] = fmt.Sprintf("N%d", i)
	}

	var sb strings.Builder
	sb.WriteString("graph LR\n")
	for _, title := range titles {
		fmt.Fprintf(&sb, "  %s[\"%s\"]\n", nodeIDs[title], label(title))
	}

	for _, from := range titles {
		targets, err := store.Linked(ctx, from)
		if err != nil {
			return "", fmt.Errorf("links of %q: %w", from, err)
		}
		for _, to := range targets {
			fmt.Fprintf(&sb, "  %s --> %s\n", nodeIDs[from], nodeIDs[to])
		}
	}
	return sb.String(), nil
}

// label escapes quotes and truncates long titles.
func label(title string) string {
	title = strings.ReplaceAll(title, `"`, "#quot;")
	r := []rune(title)
	if len(r) > maxLabelLength {
		return string(r[:maxLabelLength-1]) + "…"
	}
	return title
}
