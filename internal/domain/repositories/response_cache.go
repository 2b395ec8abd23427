package repositories

import (
	"context"
	"time"
)

// CachedResponse is a stored query result and the time it was fetched
type CachedResponse struct {
	Data      []byte    `json:"data"`
	FetchedAt time.Time `json:"fetched_at"`
}

// ResponseCache stores query results keyed by query identity.
// Get returns nil without error on a miss.
type ResponseCache interface {
	Get(ctx context.Context, key string) (*CachedResponse, error)
	Set(ctx context.Context, key string, value CachedResponse) error
	Delete(ctx context.Context, key string) error
}
