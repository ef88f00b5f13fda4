package store

import (
	"context"

	"github.com/matzehuels/psdrank/pkg/errors"
)

// Config selects and parameterizes a store backend.
type Config struct {
	// Backend is one of "file", "redis", "mongo", "null".
	Backend string `toml:"backend"`

	// Dir is the root directory for the file backend.
	Dir string `toml:"dir"`

	// RedisURL is the connection URL for the redis backend.
	RedisURL string `toml:"redis_url"`

	// MongoURI, MongoDatabase and MongoCollection configure the mongo backend.
	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// DefaultConfig returns a file-backed configuration rooted at dir.
func DefaultConfig(dir string) Config {
	return Config{Backend: "file", Dir: dir}
}

// Open creates the store selected by the configuration.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case "", "file":
		if cfg.Dir == "" {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "file store requires a directory")
		}
		return NewFileStore(cfg.Dir)
	case "redis":
		if cfg.RedisURL == "" {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "redis store requires a url")
		}
		return NewRedisStore(ctx, cfg.RedisURL)
	case "mongo":
		if cfg.MongoURI == "" {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "mongo store requires a uri")
		}
		db := cfg.MongoDatabase
		if db == "" {
			db = "psdrank"
		}
		coll := cfg.MongoCollection
		if coll == "" {
			coll = "bounds"
		}
		return NewMongoStore(ctx, cfg.MongoURI, db, coll)
	case "null":
		return NewNullStore(), nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown store backend %q", cfg.Backend)
	}
}
