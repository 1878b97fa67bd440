package cache

import (
	"context"
	"errors"
)

var (
	// ErrCacheMiss indicates the requested key was not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrInvalidEntry indicates the cache entry is invalid or corrupted
	ErrInvalidEntry = errors.New("invalid cache entry")
)

// Store is a TTL-bounded key/value backend for cache entries.
// Implementations must return ErrCacheMiss for absent or expired keys.
type Store interface {
	// Get retrieves the entry stored under key.
	Get(ctx context.Context, key string) (*Entry, error)

	// Set stores an entry under key until its ExpiresAt passes.
	Set(ctx context.Context, key string, entry *Entry) error

	// Delete removes the entry stored under key.
	Delete(ctx context.Context, key string) error

	// Layer names the backend for metrics and logging ("memory", "redis").
	Layer() string
}
