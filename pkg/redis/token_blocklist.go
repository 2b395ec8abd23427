package redis

import (
	"context"
	"errors"
	"time"
)

const revokedKeyPrefix = "auth:revoked:"

var (
	setRevokedValue = Set
	revokedExists   = Exists
)

// TokenBlocklist records revoked token ids until their natural expiry
type TokenBlocklist struct{}

// NewTokenBlocklist creates a token blocklist backed by the shared client
func NewTokenBlocklist() *TokenBlocklist {
	return &TokenBlocklist{}
}

// Revoke marks jti as revoked for ttl. A non-positive ttl is a no-op since the
// token has already expired.
func (b *TokenBlocklist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if jti == "" {
		return errors.New("token has no id")
	}
	if ttl <= 0 {
		return nil
	}
	return setRevokedValue(ctx, revokedKeyPrefix+jti, "1", ttl)
}

// IsRevoked reports whether jti has been revoked
func (b *TokenBlocklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	return revokedExists(ctx, revokedKeyPrefix+jti)
}
