//go:build cgo

package notes

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	kuzu "github.com/kuzudb/go-kuzu"
)

// KuzuStore implements the Store interface using KuzuDB as the graph backend.
// It requires CGO because the go-kuzu driver wraps KuzuDB's C library.
type KuzuStore struct {
	mu   sync.Mutex // one connection, serialized across requests
	db   *kuzu.Database
	conn *kuzu.Connection
}

// Compile-time check that KuzuStore satisfies Store.
var _ Store = (*KuzuStore)(nil)

// NewKuzuStore creates a KuzuStore backed by an in-memory KuzuDB instance.
func NewKuzuStore() (*KuzuStore, error) {
	return openKuzu(":memory:")
}

// NewKuzuFileStore creates a KuzuStore backed by a file-based KuzuDB at the
// given directory path, so imported notes survive restarts.
func NewKuzuFileStore(dbPath string) (*KuzuStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("kuzu: create parent directory: %w", err)
	}
	return openKuzu(dbPath)
}

func openKuzu(path string) (*KuzuStore, error) {
	cfg := kuzu.DefaultSystemConfig()
	db, err := kuzu.OpenDatabase(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("kuzu: open database: %w", err)
	}
	conn, err := kuzu.OpenConnection(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("kuzu: open connection: %w", err)
	}
	return &KuzuStore{db: db, conn: conn}, nil
}

// Close releases the KuzuDB connection and database.
func (s *KuzuStore) Close() error {
	if s.conn != nil {
		s.conn.Close()
	}
	if s.db != nil {
		s.db.Close()
	}
	return nil
}

// ddlStatements defines the Cypher DDL executed by InitSchema.
// Order matters: node tables must precede relationship tables.
var ddlStatements = []string{
	`CREATE NODE TABLE IF NOT EXISTS Page(
		title STRING,
		content STRING,
		updated STRING,
		PRIMARY KEY(title)
	)`,
	`CREATE REL TABLE IF NOT EXISTS LINKS_TO(FROM Page TO Page)`,
}

// InitSchema creates the node and relationship tables if they do not exist.
func (s *KuzuStore) InitSchema(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, stmt := range ddlStatements {
		res, err := s.conn.Query(stmt)
		if err != nil {
			return fmt.Errorf("kuzu: init schema: %w", err)
		}
		res.Close()
	}
	return nil
}

// AddPage upserts a Page node.
func (s *KuzuStore) AddPage(_ context.Context, page Page) error {
	if page.Title == "" {
		return fmt.Errorf("notes: page title is required")
	}
	return s.exec(
		`MERGE (p:Page {title: $title})
		 ON CREATE SET p.content = $content, p.updated = $updated
		 ON MATCH SET p.content = $content, p.updated = $updated`,
		map[string]any{
			"title":   page.Title,
			"content": page.Content,
			"updated": page.Updated,
		},
	)
}

// AddLink creates a LINKS_TO edge between two existing pages.
func (s *KuzuStore) AddLink(ctx context.Context, from, to string) error {
	for _, title := range []string{from, to} {
		if _, err := s.GetPage(ctx, title); err != nil {
			return fmt.Errorf("notes: link endpoint %q: %w", title, err)
		}
	}
	return s.exec(
		`MATCH (a:Page {title: $from}), (b:Page {title: $to})
		 MERGE (a)-[:LINKS_TO]->(b)`,
		map[string]any{"from": from, "to": to},
	)
}

// GetPage looks up a page by title.
func (s *KuzuStore) GetPage(_ context.Context, title string) (*Page, error) {
	rows, err := s.query(
		"MATCH (p:Page) WHERE p.title = $title RETURN p.title, p.content, p.updated",
		map[string]any{"title": title},
	)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	row := rows[0]
	return &Page{
		Title:   toString(row[0]),
		Content: toString(row[1]),
		Updated: toString(row[2]),
	}, nil
}

// Linked returns the titles the page links to, sorted.
func (s *KuzuStore) Linked(_ context.Context, title string) ([]string, error) {
	rows, err := s.query(
		`MATCH (a:Page)-[:LINKS_TO]->(b:Page)
		 WHERE a.title = $title
		 RETURN b.title ORDER BY b.title`,
		map[string]any{"title": title},
	)
	if err != nil {
		return nil, err
	}
	titles := make([]string, 0, len(rows))
	for _, row := range rows {
		titles = append(titles, toString(row[0]))
	}
	return titles, nil
}

// Titles returns all page titles, sorted.
func (s *KuzuStore) Titles(_ context.Context) ([]string, error) {
	rows, err := s.query("MATCH (p:Page) RETURN p.title ORDER BY p.title", nil)
	if err != nil {
		return nil, err
	}
	titles := make([]string, 0, len(rows))
	for _, row := range rows {
		titles = append(titles, toString(row[0]))
	}
	return titles, nil
}

// Stats counts pages and links.
func (s *KuzuStore) Stats(_ context.Context) (*Stats, error) {
	pages, err := s.count("MATCH (p:Page) RETURN count(p)")
	if err != nil {
		return nil, err
	}
	links, err := s.count("MATCH (:Page)-[r:LINKS_TO]->(:Page) RETURN count(r)")
	if err != nil {
		return nil, err
	}
	return &Stats{PageCount: pages, LinkCount: links}, nil
}

// exec runs a parameterized Cypher statement that produces no result rows.
func (s *KuzuStore) exec(cypher string, params map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stmt, err := s.conn.Prepare(cypher)
	if err != nil {
		return fmt.Errorf("kuzu: prepare: %w", err)
	}
	defer stmt.Close()

	res, err := s.conn.Execute(stmt, params)
	if err != nil {
		return fmt.Errorf("kuzu: execute: %w", err)
	}
	res.Close()
	return nil
}

// query runs a Cypher statement and collects all result rows.
// Each row is a []any slice with values in column order.
func (s *KuzuStore) query(cypher string, params map[string]any) ([][]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res *kuzu.QueryResult
	var err error

	if len(params) == 0 {
		res, err = s.conn.Query(cypher)
	} else {
		var stmt *kuzu.PreparedStatement
		stmt, err = s.conn.Prepare(cypher)
		if err != nil {
			return nil, fmt.Errorf("kuzu: prepare: %w", err)
		}
		defer stmt.Close()
		res, err = s.conn.Execute(stmt, params)
	}
	if err != nil {
		return nil, fmt.Errorf("kuzu: query: %w", err)
	}
	defer res.Close()

	var rows [][]any
	for res.HasNext() {
		tuple, err := res.Next()
		if err != nil {
			return nil, fmt.Errorf("kuzu: next: %w", err)
		}
		vals, err := tuple.GetAsSlice()
		if err != nil {
			return nil, fmt.Errorf("kuzu: row values: %w", err)
		}
		rows = append(rows, vals)
	}
	return rows, nil
}

func (s *KuzuStore) count(cypher string) (int, error) {
	rows, err := s.query(cypher, nil)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return 0, nil
	}
	switch v := rows[0][0].(type) {
	case int64:
		return int(v), nil
	case int32:
		return int(v), nil
	case int:
		return v, nil
	default:
		return 0, nil
	}
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
