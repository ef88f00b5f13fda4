package store

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/psdrank/pkg/errors"
)

// RedisStore persists entries in Redis, one JSON value per key.
//
// The monotonic merge runs under WATCH/MULTI optimistic locking: a concurrent
// write to the same key aborts the transaction and the merge retries against
// the fresh state, so no saver can loosen a window another saver tightened.
type RedisStore struct {
	client *redis.Client
}

// saveRetries bounds the optimistic-locking retry loop.
const saveRetries = 5

// NewRedisStore creates a Redis-backed store and verifies connectivity.
func NewRedisStore(ctx context.Context, url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse redis url")
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "connect to redis")
	}
	return &RedisStore{client: client}, nil
}

// Load retrieves the entry for key.
func (s *RedisStore) Load(ctx context.Context, key string) (Entry, bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, errors.Wrap(errors.ErrCodeStore, err, "load entry for %s", key)
	}
	var e Entry
	if err := json.Unmarshal(data, &e); err != nil || !e.Valid() {
		return Entry{}, false, nil
	}
	return e, true, nil
}

// Save merges the entry into the stored state for key.
func (s *RedisStore) Save(ctx context.Context, key string, e Entry) (bool, error) {
	if !e.Valid() {
		return false, errors.New(errors.ErrCodeInternal, "invalid window [%d, %d]", e.DLo, e.DHi)
	}

	wrote := false
	txf := func(tx *redis.Tx) error {
		var stored Entry
		hadStored := false
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil && err != redis.Nil {
			return err
		}
		if err == nil {
			if jerr := json.Unmarshal(data, &stored); jerr == nil && stored.Valid() {
				hadStored = true
			}
		}

		out, write := merge(stored, hadStored, e)
		if !write {
			wrote = false
			return nil
		}
		payload, err := json.Marshal(out)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, 0)
			return nil
		})
		if err == nil {
			wrote = true
		}
		return err
	}

	for i := 0; i < saveRetries; i++ {
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			return wrote, nil
		}
		if err == redis.TxFailedErr {
			continue
		}
		return false, errors.Wrap(errors.ErrCodeStore, err, "save entry for %s", key)
	}
	return false, errors.New(errors.ErrCodeStore, "save entry for %s: too much contention", key)
}

// Clear removes every entry under the bounds key prefix.
func (s *RedisStore) Clear(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, "bounds:*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return errors.Wrap(errors.ErrCodeStore, err, "delete %s", iter.Val())
		}
	}
	if err := iter.Err(); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "scan bounds keys")
	}
	return nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ensure RedisStore implements Store.
var _ Store = (*RedisStore)(nil)
