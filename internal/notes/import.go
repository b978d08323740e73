package notes

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

// wikiLinkPattern matches [[Page Title]] references between pages.
var wikiLinkPattern = regexp.MustCompile(`\[\[([^\[\]]+)\]\]`)

// ImportResult reports what ImportDir loaded.
type ImportResult struct {
	Pages         int
	Links         int
	DanglingLinks []string // "from -> to" pairs whose target page does not exist
}

// ImportDir loads every *.md file in dir (non-recursive) as a page, then
// records [[wiki links]] between pages that both exist. The page title is
// the first "# " heading, or the file name without extension.
func ImportDir(ctx context.Context, store Store, dir string) (*ImportResult, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.md"))
	if err != nil {
		return nil, fmt.Errorf("notes: glob %s: %w", dir, err)
	}
	sort.Strings(matches)

	result := &ImportResult{}
	known := make(map[string]bool, len(matches))
	links := make(map[string][]string, len(matches))

	for _, path := range matches {
		page, targets, err := readPage(path)
		if err != nil {
			return nil, err
		}
		if err := store.AddPage(ctx, page); err != nil {
			return nil, fmt.Errorf("notes: add page %q: %w", page.Title, err)
		}
		known[page.Title] = true
		links[page.Title] = targets
		result.Pages++
	}

	titles := make([]string, 0, len(links))
	for title := range links {
		titles = append(titles, title)
	}
	sort.Strings(titles)

	for _, from := range titles {
		for _, to := range links[from] {
			if !known[to] {
				result.DanglingLinks = append(result.DanglingLinks, from+" -> "+to)
				continue
			}
			if err := store.AddLink(ctx, from, to); err != nil {
				return nil, fmt.Errorf("notes: add link %q -> %q: %w", from, to, err)
			}
			result.Links++
		}
	}
	return result, nil
}

// readPage parses one markdown file into a Page and its unique link targets.
func readPage(path string) (Page, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Page{}, nil, fmt.Errorf("notes: read %s: %w", path, err)
	}
	content := string(data)

	title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	sc := bufio.NewScanner(strings.NewReader(content))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if strings.HasPrefix(line, "# ") {
			title = strings.TrimSpace(strings.TrimPrefix(line, "# "))
			break
		}
	}

	var updated string
	if info, err := os.Stat(path); err == nil {
		updated = info.ModTime().UTC().Format(time.RFC3339)
	}

	seen := make(map[string]bool)
	var targets []string
	for _, m := range wikiLinkPattern.FindAllStringSubmatch(content, -1) {
		to := strings.TrimSpace(m[1])
		if to == "" || to == title || seen[to] {
			continue
		}
		seen[to] = true
		targets = append(targets, to)
	}

	return Page{Title: title, Content: content, Updated: updated}, targets, nil
}
