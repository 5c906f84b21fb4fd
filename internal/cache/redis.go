package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned when the requested key is not in the cache.
var ErrCacheMiss = errors.New("cache: key not found")

// RedisCache is a lookaside cache for resolved slugs.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to redis and verifies the connection with a ping.
func NewRedisCache(addr, password string, db int) (*RedisCache, error) {
	const op = "cache.NewRedisCache"

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: failed to connect to redis: %w", op, err)
	}

	return &RedisCache{client: client}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	const op = "cache.RedisCache.Get"

	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", fmt.Errorf("%s: %w", op, ErrCacheMiss)
		}

		return "", fmt.Errorf("%s: failed to get key: %w", op, err)
	}

	return val, nil
}

func (c *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	const op = "cache.RedisCache.Set"

	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("%s: failed to set key: %w", op, err)
	}

	return nil
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	const op = "cache.RedisCache.Delete"

	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("%s: failed to delete key: %w", op, err)
	}

	return nil
}

// Close releases the underlying client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
