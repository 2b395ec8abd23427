package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/repositories"
	pkgredis "github.com/TRAPZZY/AGRO--007-sub000/pkg/redis"
	goredis "github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "agro:cache:"

// RedisCache shares the response cache between processes. Expiry is left to Redis.
type RedisCache struct {
	ttl time.Duration
}

// NewRedisCache creates a Redis-backed cache using the shared client
func NewRedisCache(ttl time.Duration) *RedisCache {
	return &RedisCache{ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) (*repositories.CachedResponse, error) {
	raw, err := pkgredis.Get(ctx, redisKeyPrefix+key)
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var value repositories.CachedResponse
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		// unreadable entries count as misses and get overwritten on the next Set
		return nil, nil
	}
	return &value, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value repositories.CachedResponse) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return pkgredis.Set(ctx, redisKeyPrefix+key, payload, c.ttl)
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return pkgredis.Del(ctx, redisKeyPrefix+key)
}
