// Package cache stores rendered arrow artifacts.
//
// The preview server renders the same arrow over the same page many times;
// a [Cache] keyed by [ArtifactKey] lets it skip repeated rasterization.
// Three implementations are provided:
//
//   - [MemoryCache]: bounded in-process map, the server default
//   - [FileCache]: one raw file per entry under a directory
//   - [NullCache]: stores nothing, for --no-cache
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the stored value and whether it was found and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}
