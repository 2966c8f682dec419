package memory

import (
	"context"
	"sync"
	"time"

	"eventsearch/internal/domain"
)

// GeoCache is an in-memory domain.GeoCacheRepository.
type GeoCache struct {
	mu      sync.Mutex
	entries map[string]domain.GeoCacheEntry
}

var _ domain.GeoCacheRepository = (*GeoCache)(nil)

func NewGeoCache() *GeoCache {
	return &GeoCache{entries: make(map[string]domain.GeoCacheEntry)}
}

func (c *GeoCache) Get(_ context.Context, key string) (*domain.GeoCacheEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &e, nil
}

func (c *GeoCache) Put(_ context.Context, entry *domain.GeoCacheEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[entry.Key] = *entry
	return nil
}

func (c *GeoCache) PurgeExpired(_ context.Context, now time.Time) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var n int64
	for k, e := range c.entries {
		if e.Expired(now) {
			delete(c.entries, k)
			n++
		}
	}
	return n, nil
}

// Len returns the number of cached entries.
func (c *GeoCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
