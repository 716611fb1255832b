package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// DefaultCleanupInterval is how often [MemoryCache] purges expired entries.
const DefaultCleanupInterval = 15 * time.Minute

// MemoryCache is an in-process cache. Entries are lost on restart.
type MemoryCache struct {
	c *gocache.Cache
}

// NewMemoryCache creates a memory cache. cleanup <= 0 uses
// [DefaultCleanupInterval].
func NewMemoryCache(cleanup time.Duration) *MemoryCache {
	if cleanup <= 0 {
		cleanup = DefaultCleanupInterval
	}
	return &MemoryCache{c: gocache.New(gocache.NoExpiration, cleanup)}
}

// Get implements [Cache].
func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	data, ok := v.([]byte)
	return data, ok, nil
}

// Set implements [Cache]. The slice is copied.
func (m *MemoryCache) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	m.c.Set(key, append([]byte(nil), data...), ttl)
	return nil
}

// Delete implements [Cache].
func (m *MemoryCache) Delete(_ context.Context, key string) error {
	m.c.Delete(key)
	return nil
}

// Len returns the number of stored entries, including expired ones not yet
// purged.
func (m *MemoryCache) Len() int { return m.c.ItemCount() }

// Flush removes every entry.
func (m *MemoryCache) Flush() { m.c.Flush() }

// Close implements [Cache].
func (m *MemoryCache) Close() error {
	m.c.Flush()
	return nil
}

var _ Cache = (*MemoryCache)(nil)
