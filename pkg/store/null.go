package store

import "context"

// NullStore is a no-op store that never persists anything.
// Useful for testing or when persistence should be disabled.
type NullStore struct{}

// NewNullStore creates a null store.
func NewNullStore() Store {
	return &NullStore{}
}

// Load always reports a miss.
func (s *NullStore) Load(ctx context.Context, key string) (Entry, bool, error) {
	return Entry{}, false, nil
}

// Save does nothing.
func (s *NullStore) Save(ctx context.Context, key string, e Entry) (bool, error) {
	return false, nil
}

// Close does nothing.
func (s *NullStore) Close() error {
	return nil
}

// Ensure NullStore implements Store.
var _ Store = (*NullStore)(nil)
