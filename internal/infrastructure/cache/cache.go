// Package cache holds the live query response caches.
package cache

import (
	"fmt"
	"time"

	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/repositories"
)

// Backends
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// New returns the cache for backend
func New(backend string, ttl time.Duration, maxEntries int) (repositories.ResponseCache, error) {
	switch backend {
	case "", BackendMemory:
		return NewMemoryCache(ttl, maxEntries), nil
	case BackendRedis:
		return NewRedisCache(ttl), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", backend)
	}
}
