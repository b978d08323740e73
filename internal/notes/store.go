// Package notes is the local meeting-notes graph: pages keyed by title and
// the links between them. It backs the notes source when the tool gateway is
// not used.
package notes

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned when no page has the requested title.
var ErrNotFound = errors.New("notes: page not found")

// Store is the interface for the notes graph backend.
// Implementations: KuzuStore (cgo builds), MemStore (tests and fallback).
type Store interface {
	io.Closer

	// InitSchema is called once before any data is inserted.
	InitSchema(ctx context.Context) error

	// AddPage inserts or replaces a page keyed by title.
	AddPage(ctx context.Context, page Page) error

	// AddLink records that page `from` links to page `to`. Both pages must exist.
	AddLink(ctx context.Context, from, to string) error

	// GetPage returns the page with the given title or ErrNotFound.
	GetPage(ctx context.Context, title string) (*Page, error)

	// Linked returns the titles `title` links to, sorted.
	Linked(ctx context.Context, title string) ([]string, error)

	// Titles returns every page title, sorted.
	Titles(ctx context.Context) ([]string, error)

	Stats(ctx context.Context) (*Stats, error)
}

// Page is a single notes page.
type Page struct {
	Title   string
	Content string
	Updated string // RFC 3339 timestamp, may be empty
}

// Stats summarizes the store contents.
type Stats struct {
	PageCount int
	LinkCount int
}
