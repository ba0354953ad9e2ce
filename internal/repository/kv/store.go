package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/oshokin/alarm-clock/internal/config"
)

// Store is a namespaced string key/value store.
type Store interface {
	// Get returns the value stored under key and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	// Close releases the backend connection.
	Close() error
}

// errUnsupportedBackend is returned by Open for unknown backend names.
var errUnsupportedBackend = errors.New("unsupported storage backend")

// Open creates the store selected by the storage settings.
func Open(ctx context.Context, settings config.Storage) (Store, error) {
	switch settings.Backend {
	case config.BackendMemory:
		return NewMemoryStore(), nil
	case config.BackendFile, "":
		return OpenFileStore(settings.File, settings.Namespace)
	case config.BackendRedis:
		return OpenRedisStore(ctx, settings.RedisURL, settings.Namespace)
	case config.BackendPostgres:
		return OpenPostgresStore(ctx, settings.PostgresDSN, settings.Namespace)
	default:
		return nil, fmt.Errorf("%w: %q", errUnsupportedBackend, settings.Backend)
	}
}
