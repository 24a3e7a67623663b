// Package cache provides Redis-backed response caching for hot list
// endpoints, with prefix invalidation on writes. A nil *RedisCache is
// valid and disables caching.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kickoffhub/kickoffhub/internal/config"
)

// RedisCache wraps a Redis client with JSON get/set helpers.
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New connects to Redis and verifies the connection. Returns (nil, nil)
// when cfg.Addr is empty: caching is optional.
func New(cfg config.RedisConfig) (*RedisCache, error) {
	if cfg.Addr == "" {
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisCache{rdb: rdb, ttl: ttl}, nil
}

// Enabled reports whether a Redis connection is available.
func (c *RedisCache) Enabled() bool {
	return c != nil && c.rdb != nil
}

// Client exposes the underlying Redis client (shared with the queue broker).
func (c *RedisCache) Client() *redis.Client {
	if c == nil {
		return nil
	}
	return c.rdb
}

// GetJSON unmarshals the cached value at key into dest.
// Returns false on miss or when caching is disabled.
func (c *RedisCache) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if !c.Enabled() {
		return false, nil
	}
	data, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache decode %s: %w", key, err)
	}
	return true, nil
}

// SetJSON stores value at key with the configured TTL.
func (c *RedisCache) SetJSON(ctx context.Context, key string, value any) error {
	if !c.Enabled() {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	return c.rdb.Set(ctx, key, data, c.ttl).Err()
}

// Delete removes specific keys.
func (c *RedisCache) Delete(ctx context.Context, keys ...string) error {
	if !c.Enabled() || len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// InvalidatePrefix removes every key under prefix. Used after writes so
// list endpoints never serve stale pages.
func (c *RedisCache) InvalidatePrefix(ctx context.Context, prefix string) error {
	if !c.Enabled() {
		return nil
	}

	iter := c.rdb.Scan(ctx, 0, prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("cache scan %s: %w", prefix, err)
	}
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// ListKey builds a deterministic cache key for a paginated list endpoint.
func ListKey(entity string, page, limit int, q string) string {
	return fmt.Sprintf("kickoffhub:%s:list:p%d:l%d:q%s", entity, page, limit, q)
}

// Prefix returns the invalidation prefix for an entity's list keys.
func Prefix(entity string) string {
	return fmt.Sprintf("kickoffhub:%s:", entity)
}
