// Package cache provides a redis-backed ports.Cache and read-through
// decorators for the reference data directories.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jsamuelsen/customer-service/internal/domain"
	"github.com/jsamuelsen/customer-service/internal/platform/config"
	"github.com/jsamuelsen/customer-service/internal/ports"
)

var _ ports.Cache = (*RedisCache)(nil)

// NewRedisClient builds a client from cfg. It does not connect.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// RedisCache implements ports.Cache. Every key is prefixed with the
// configured namespace.
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache wraps client. The caller keeps ownership of the client.
func NewRedisCache(client *redis.Client, prefix string) *RedisCache {
	return &RedisCache{client: client, prefix: prefix}
}

// Get returns domain.ErrNotFound on a miss.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}

	return data, nil
}

// Set stores value. A ttl of 0 keeps the key until deleted; sub-second
// values are kept at millisecond precision.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.prefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}

	return nil
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}

	return nil
}

// Name implements ports.HealthChecker.
func (c *RedisCache) Name() string {
	return "redis"
}

// Check pings redis.
func (c *RedisCache) Check(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Optional marks the cache as non-critical: lookups fall back to the
// database while redis is down.
func (c *RedisCache) Optional() bool {
	return true
}
