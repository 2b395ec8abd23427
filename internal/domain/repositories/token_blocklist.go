package repositories

import (
	"context"
	"time"
)

// TokenBlocklist tracks revoked token ids until they expire
type TokenBlocklist interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
