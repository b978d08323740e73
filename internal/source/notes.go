package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dusk-indust/briefly/internal/gateway"
	"github.com/dusk-indust/briefly/internal/notes"
)

// ToolGetPageByTitle is the gateway tool that reads a notes page.
const ToolGetPageByTitle = "Notion.GetPageContentByTitle"

// Compile-time interface checks.
var (
	_ NotesFetcher = (*GatewayNotesFetcher)(nil)
	_ NotesFetcher = (*LocalNotesFetcher)(nil)
)

// GatewayNotesFetcher reads a notes page through the tool gateway.
type GatewayNotesFetcher struct {
	caller gateway.ToolCaller
}

// NewGatewayNotesFetcher creates a GatewayNotesFetcher that calls tools via caller.
func NewGatewayNotesFetcher(caller gateway.ToolCaller) *GatewayNotesFetcher {
	return &GatewayNotesFetcher{caller: caller}
}

type notesPage struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Fetch reads the page titled p.Title. The tool may answer with the page
// body as a string or with a {title, content} object.
func (f *GatewayNotesFetcher) Fetch(ctx context.Context, p NotesParams) (*NotesResult, error) {
	if p.Title == "" {
		return nil, fmt.Errorf("notes: page title is required")
	}

	raw, err := f.caller.CallTool(ctx, ToolGetPageByTitle, map[string]any{"title": p.Title})
	if err != nil {
		return nil, fmt.Errorf("notes: get page %q: %w", p.Title, err)
	}

	result := &NotesResult{Title: p.Title}
	if len(raw) == 0 || string(raw) == "null" {
		return result, nil
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		result.Content = strings.TrimSpace(text)
		return result, nil
	}

	var page notesPage
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, fmt.Errorf("notes: decode page %q: %w", p.Title, err)
	}
	if page.Title != "" {
		result.Title = page.Title
	}
	result.Content = strings.TrimSpace(page.Content)
	return result, nil
}

// LocalNotesFetcher reads pages from the local notes graph.
type LocalNotesFetcher struct {
	store notes.Store
}

// NewLocalNotesFetcher creates a LocalNotesFetcher over store.
func NewLocalNotesFetcher(store notes.Store) *LocalNotesFetcher {
	return &LocalNotesFetcher{store: store}
}

// Fetch returns the page and the titles it links to. A missing page is an
// empty result, not an error.
func (f *LocalNotesFetcher) Fetch(ctx context.Context, p NotesParams) (*NotesResult, error) {
	if p.Title == "" {
		return nil, fmt.Errorf("notes: page title is required")
	}

	page, err := f.store.GetPage(ctx, p.Title)
	if errors.Is(err, notes.ErrNotFound) {
		return &NotesResult{Title: p.Title}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("notes: get page %q: %w", p.Title, err)
	}

	related, err := f.store.Linked(ctx, p.Title)
	if err != nil {
		return nil, fmt.Errorf("notes: linked pages for %q: %w", p.Title, err)
	}

	return &NotesResult{
		Title:   page.Title,
		Content: strings.TrimSpace(page.Content),
		Related: related,
	}, nil
}
