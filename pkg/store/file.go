package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/matzehuels/psdrank/pkg/errors"
)

// FileStore persists entries as JSON files under a root directory.
//
// Keys split on ':' into a directory path, so "bounds:n5:e6:772" lands at
// <root>/bounds/n5/e6/772.json and entries shard naturally by vertex and edge
// count. Writes go through a temp file and an atomic rename; the merge is
// serialized by an in-process mutex, which covers the concurrent savers of a
// single batch run.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore creates a file-based store rooted at dir.
// The directory will be created if it doesn't exist.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "create store dir %s", dir)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the store's root directory.
func (s *FileStore) Dir() string {
	return s.dir
}

// Load retrieves the entry for key.
func (s *FileStore) Load(ctx context.Context, key string) (Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(key)
}

// Save merges the entry into the stored state for key.
func (s *FileStore) Save(ctx context.Context, key string, e Entry) (bool, error) {
	if !e.Valid() {
		return false, errors.New(errors.ErrCodeInternal, "invalid window [%d, %d]", e.DLo, e.DHi)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, hadStored, err := s.read(key)
	if err != nil {
		return false, err
	}
	out, write := merge(stored, hadStored, e)
	if !write {
		return false, nil
	}

	path := s.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, errors.Wrap(errors.ErrCodeStore, err, "create shard dir for %s", key)
	}
	data, err := json.Marshal(out)
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeStore, err, "encode entry for %s", key)
	}

	// Temp file plus rename keeps readers from ever seeing a partial write.
	tmp, err := os.CreateTemp(filepath.Dir(path), ".entry-*")
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeStore, err, "create temp file for %s", key)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return false, errors.Wrap(errors.ErrCodeStore, err, "write temp file for %s", key)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return false, errors.Wrap(errors.ErrCodeStore, err, "close temp file for %s", key)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return false, errors.Wrap(errors.ErrCodeStore, err, "rename entry for %s", key)
	}
	return true, nil
}

// Clear removes every persisted entry under the store root and reports how
// many entries were deleted.
func (s *FileStore) Clear() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	err := filepath.WalkDir(s.dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if filepath.Ext(path) == ".json" {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeStore, err, "walk store dir %s", s.dir)
	}
	if err := os.RemoveAll(s.dir); err != nil {
		return 0, errors.Wrap(errors.ErrCodeStore, err, "clear store dir %s", s.dir)
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return 0, errors.Wrap(errors.ErrCodeStore, err, "recreate store dir %s", s.dir)
	}
	return count, nil
}

// Close does nothing for the file store.
func (s *FileStore) Close() error {
	return nil
}

// read loads an entry without locking; callers hold the mutex.
func (s *FileStore) read(key string) (Entry, bool, error) {
	data, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, errors.Wrap(errors.ErrCodeStore, err, "read entry for %s", key)
	}
	var e Entry
	if err := json.Unmarshal(data, &e); err != nil || !e.Valid() {
		// Corrupt entry: treat as a miss and let the next save replace it.
		_ = os.Remove(s.path(key))
		return Entry{}, false, nil
	}
	return e, true, nil
}

// path converts a store key to a file path, splitting on ':' for sharding.
func (s *FileStore) path(key string) string {
	parts := strings.Split(key, ":")
	last := len(parts) - 1
	parts[last] = fmt.Sprintf("%s.json", parts[last])
	return filepath.Join(append([]string{s.dir}, parts...)...)
}

// Ensure FileStore implements Store.
var _ Store = (*FileStore)(nil)
