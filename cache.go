package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache implements SessionCache on a Redis client. The client is safe
// for concurrent use; no application-level locking is layered on top.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache wraps an existing Redis client.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

var _ SessionCache = (*RedisCache)(nil)

// Set stores value under key, overwriting any previous entry. A zero ttl
// stores without expiration.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

// Get returns the value at key, or ErrIdentityNotFound on a miss.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrIdentityNotFound
		}
		return nil, err
	}
	return val, nil
}

// Del removes the entry at key. Deleting a missing key is not an error.
func (c *RedisCache) Del(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}
