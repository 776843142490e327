// Package cache stores computed timetables in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"go.ngs.io/praytimes/internal/domain"
)

// RedisCache keeps one JSON document per key with a fixed TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// Options configures the Redis connection.
type Options struct {
	Address  string
	Username string
	Password string
	TTL      time.Duration
}

// NewRedisCache connects to Redis and verifies the connection.
func NewRedisCache(ctx context.Context, opts Options) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Address,
		Username: opts.Username,
		Password: opts.Password,
		DB:       0,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", opts.Address, err)
	}
	return &RedisCache{client: client, ttl: opts.TTL}, nil
}

// Get returns the cached times for key.
func (c *RedisCache) Get(ctx context.Context, key string) (domain.Times, bool, error) {
	b, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Times{}, false, nil
	}
	if err != nil {
		return domain.Times{}, false, err
	}

	var times domain.Times
	if err := json.Unmarshal(b, &times); err != nil {
		return domain.Times{}, false, fmt.Errorf("corrupt cache entry %s: %w", key, err)
	}
	return times, true, nil
}

// Set stores times under key.
func (c *RedisCache) Set(ctx context.Context, key string, times domain.Times) error {
	b, err := json.Marshal(times)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, b, c.ttl).Err()
}

// Close closes the connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
