package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

var client *redis.Client

var pingClient = func(ctx context.Context, c *redis.Client) error {
	return c.Ping(ctx).Err()
}

// Init initializes the Redis client
func Init(url, password string) error {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return err
	}

	if password != "" {
		opts.Password = password
	}

	client = redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return pingClient(ctx, client)
}

// SetClient sets the Redis client (used for testing)
func SetClient(c *redis.Client) {
	client = c
}

// GetClient returns the Redis client
func GetClient() *redis.Client {
	return client
}

// Close closes the client if one was initialised
func Close() error {
	if client == nil {
		return nil
	}
	return client.Close()
}

// Set stores a key-value pair with expiration
func Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return client.Set(ctx, key, value, expiration).Err()
}

// Get retrieves a value by key
func Get(ctx context.Context, key string) (string, error) {
	return client.Get(ctx, key).Result()
}

// Del removes a key
func Del(ctx context.Context, key string) error {
	return client.Del(ctx, key).Err()
}

// Exists reports whether key is present
func Exists(ctx context.Context, key string) (bool, error) {
	n, err := client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// SetNX sets a key only if it does not exist
func SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	return client.SetNX(ctx, key, value, expiration).Result()
}

// Publish sends payload on a pub/sub channel
func Publish(ctx context.Context, channel string, payload interface{}) error {
	return client.Publish(ctx, channel, payload).Err()
}

// Subscribe opens a pub/sub subscription on the given channels
func Subscribe(ctx context.Context, channels ...string) *redis.PubSub {
	return client.Subscribe(ctx, channels...)
}
