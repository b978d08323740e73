//go:build cgo

package notes

import "context"

// Open returns a KuzuDB-backed store at path, or an in-memory KuzuDB when
// path is empty. The schema is initialized before returning.
func Open(path string) (Store, error) {
	var (
		s   *KuzuStore
		err error
	)
	if path == "" {
		s, err = NewKuzuStore()
	} else {
		s, err = NewKuzuFileStore(path)
	}
	if err != nil {
		return nil, err
	}
	if err := s.InitSchema(context.Background()); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}
