package store

import (
	"context"
	"os"
	"path/filepath"

	"github.com/matzehuels/colgrid/pkg/config"
	"github.com/matzehuels/colgrid/pkg/errors"
)

// DefaultDir returns the file store directory used when none is configured.
func DefaultDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "colgrid", "state")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".colgrid", "state")
	}
	return filepath.Join(home, ".config", "colgrid", "state")
}

// Open creates the backend selected by cfg.
func Open(ctx context.Context, cfg config.Store) (Store, error) {
	var (
		s   Store
		err error
	)
	switch cfg.Backend {
	case config.BackendNone:
		return NewNullStore(), nil
	case config.BackendMemory:
		return NewMemoryStore(), nil
	case config.BackendFile, "":
		dir := cfg.Dir
		if dir == "" {
			dir = DefaultDir()
		}
		s, err = NewFileStore(dir)
	case config.BackendRedis:
		s, err = NewRedisStore(ctx, RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	case config.BackendMongo:
		s, err = NewMongoStore(ctx, MongoOptions{
			URI:        cfg.MongoURI,
			Database:   cfg.MongoDatabase,
			Collection: cfg.MongoCollection,
		})
	case config.BackendPostgres:
		s, err = NewPostgresStore(ctx, cfg.PostgresDSN)
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown store backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "open %s store", cfg.Backend)
	}
	return s, nil
}
