// Package cache provides the byte-level caches shared by hero detection and
// the render pipeline.
//
// # Overview
//
// Every backend implements [Cache]. Values are opaque bytes, so callers own
// their encoding (JSON boxes, PNG artifacts). A TTL of zero means the entry
// never expires.
//
//   - [NullCache]: stores nothing
//   - [MemoryCache]: in-process, backed by go-cache
//   - [FileCache]: JSON entries in a sharded directory, for the CLI
//   - [RedisCache]: shared between server replicas
//
// # Keys
//
// [Keyer] builds namespaced keys from content hashes. [ScopedKeyer] adds a
// prefix so several deployments can share one Redis database.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values by key.
type Cache interface {
	// Get returns the value and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
