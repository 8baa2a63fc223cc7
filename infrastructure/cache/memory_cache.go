package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache implements ports.Cache on top of go-cache. Expired entries are
// swept by go-cache's janitor goroutine.
type MemoryCache struct {
	store *gocache.Cache
}

// NewMemoryCache creates a cache whose entries live for defaultTTL unless Set
// is given an explicit ttl.
func NewMemoryCache(defaultTTL, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{store: gocache.New(defaultTTL, cleanupInterval)}
}

// Get retrieves a value from cache
func (c *MemoryCache) Get(_ context.Context, key string) (interface{}, bool) {
	return c.store.Get(key)
}

// Set stores a value in cache
func (c *MemoryCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	c.store.Set(key, value, ttl)
	return nil
}

// Delete removes a value from cache
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.store.Delete(key)
	return nil
}

// Clear removes all values from cache
func (c *MemoryCache) Clear(_ context.Context) error {
	c.store.Flush()
	return nil
}
