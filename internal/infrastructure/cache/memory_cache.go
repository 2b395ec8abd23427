package cache

import (
	"context"
	"sync"
	"time"

	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/repositories"
)

const defaultMaxEntries = 100

// MemoryCache is a process-local response cache. Entries expire after ttl and
// the oldest entry is evicted once maxEntries is reached.
type MemoryCache struct {
	mu         sync.RWMutex
	data       map[string]*cacheEntry
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

type cacheEntry struct {
	value      repositories.CachedResponse
	storedAt   time.Time
	expiration time.Time
}

// NewMemoryCache creates a memory cache
func NewMemoryCache(ttl time.Duration, maxEntries int) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}
	return &MemoryCache{
		data:       make(map[string]*cacheEntry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Get retrieves an unexpired entry
func (c *MemoryCache) Get(_ context.Context, key string) (*repositories.CachedResponse, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.data[key]
	if !ok || c.now().After(entry.expiration) {
		return nil, nil
	}
	value := entry.value
	return &value, nil
}

// Set stores an entry, evicting the oldest one when full
func (c *MemoryCache) Set(_ context.Context, key string, value repositories.CachedResponse) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if _, exists := c.data[key]; !exists && len(c.data) >= c.maxEntries {
		c.removeExpired(now)
		if len(c.data) >= c.maxEntries {
			c.evictOldest()
		}
	}
	c.data[key] = &cacheEntry{
		value:      value,
		storedAt:   now,
		expiration: now.Add(c.ttl),
	}
	return nil
}

// Delete removes an entry
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

// Size returns the number of stored entries, expired ones included
func (c *MemoryCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

func (c *MemoryCache) removeExpired(now time.Time) {
	for key, entry := range c.data {
		if now.After(entry.expiration) {
			delete(c.data, key)
		}
	}
}

func (c *MemoryCache) evictOldest() {
	var oldestKey string
	var oldest time.Time
	for key, entry := range c.data {
		if oldestKey == "" || entry.storedAt.Before(oldest) {
			oldestKey, oldest = key, entry.storedAt
		}
	}
	delete(c.data, oldestKey)
}
