package notes

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Compile-time assertion: *MemStore satisfies Store.
var _ Store = (*MemStore)(nil)

// MemStore implements Store using Go maps. Thread-safe via sync.RWMutex.
type MemStore struct {
	mu    sync.RWMutex
	pages map[string]Page
	links map[string]map[string]struct{}
}

// NewMemStore returns an initialized MemStore ready for use.
func NewMemStore() *MemStore {
	return &MemStore{
		pages: make(map[string]Page),
		links: make(map[string]map[string]struct{}),
	}
}

// InitSchema is a no-op for the in-memory store.
func (m *MemStore) InitSchema(_ context.Context) error {
	return nil
}

// AddPage stores a page keyed by its title, replacing any previous version.
func (m *MemStore) AddPage(_ context.Context, page Page) error {
	if page.Title == "" {
		return fmt.Errorf("notes: page title is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages[page.Title] = page
	return nil
}

// AddLink records a directed link between two existing pages.
func (m *MemStore) AddLink(_ context.Context, from, to string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.pages[from]; !ok {
		return fmt.Errorf("notes: link source %q: %w", from, ErrNotFound)
	}
	if _, ok := m.pages[to]; !ok {
		return fmt.Errorf("notes: link target %q: %w", to, ErrNotFound)
	}
	if m.links[from] == nil {
		m.links[from] = make(map[string]struct{})
	}
	m.links[from][to] = struct{}{}
	return nil
}

// GetPage returns a copy of the page with the given title.
func (m *MemStore) GetPage(_ context.Context, title string) (*Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.pages[title]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

// Linked returns the sorted link targets of a page.
func (m *MemStore) Linked(_ context.Context, title string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	targets := make([]string, 0, len(m.links[title]))
	for to := range m.links[title] {
		targets = append(targets, to)
	}
	sort.Strings(targets)
	return targets, nil
}

// Titles returns all page titles, sorted.
func (m *MemStore) Titles(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	titles := make([]string, 0, len(m.pages))
	for title := range m.pages {
		titles = append(titles, title)
	}
	sort.Strings(titles)
	return titles, nil
}

// Stats counts pages and links.
func (m *MemStore) Stats(_ context.Context) (*Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	links := 0
	for _, targets := range m.links {
		links += len(targets)
	}
	return &Stats{PageCount: len(m.pages), LinkCount: links}, nil
}

// Close is a no-op for the in-memory store.
func (m *MemStore) Close() error {
	return nil
}
