package export

import (
	"context"
	"fmt"
	"time"

	"github.com/dusk-indust/briefly/internal/notes"
)

// NotesExport is the top-level JSON export structure.
type NotesExport struct {
	ExportedAt string       `json:"exportedAt"`
	PageCount  int          `json:"pageCount"`
	LinkCount  int          `json:"linkCount"`
	Pages      []PageExport `json:"pages"`
}

// PageExport describes one notes page and its outgoing links.
type PageExport struct {
	Title   string   `json:"title"`
	Updated string   `json:"updated,omitempty"`
	Words   int      `json:"words"`
	Links   []string `json:"links,omitempty"`
}

// ExportNotes builds a NotesExport from the store. Pages come out sorted by
// title; page content is summarized by word count, not copied.
func ExportNotes(ctx context.Context, store notes.Store) (*NotesExport, error) {
	titles, err := store.Titles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}

	out := &NotesExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Pages:      make([]PageExport, 0, len(titles)),
	}
	for _, title := range titles {
		page, err := store.GetPage(ctx, title)
		if err != nil {
			return nil, fmt.Errorf("page %q: %w", title, err)
		}
		links, err := store.Linked(ctx, title)
		if err != nil {
			return nil, fmt.Errorf("links of %q: %w", title, err)
		}
		out.Pages = append(out.Pages, PageExport{
			Title:   page.Title,
			Updated: page.Updated,
			Words:   wordCount(page.Content),
			Links:   links,
		})
		out.LinkCount += len(links)
	}
	out.PageCount = len(out.Pages)
	return out, nil
}

func wordCount(s string) int {
	n := 0
	inWord := false
	for _, r := range s {
		space := r == ' ' || r == '\n' || r == '\t' || r == '\r'
		if !space && !inWord {
			n++
		}
		inWord = !space
	}
	return n
}
