//go:build !cgo

package notes

import "errors"

// ErrNoCGO is returned when a file-backed store is requested from a binary
// built without cgo.
var ErrNoCGO = errors.New("notes: file-backed store requires a cgo build")

// Open returns an in-memory store when path is empty. File-backed stores
// need KuzuDB, which is unavailable without cgo.
func Open(path string) (Store, error) {
	if path != "" {
		return nil, ErrNoCGO
	}
	return NewMemStore(), nil
}
