package export

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache holds export bodies in front of the repository. A miss is reported
// as ok == false, never as an error.
type Cache interface {
	Get(ctx context.Context, id string) (body string, ok bool, err error)
	Set(ctx context.Context, id, body string) error
}

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func cacheKey(id string) string {
	return "export:" + id
}

func (c *RedisCache) Get(ctx context.Context, id string) (string, bool, error) {
	body, err := c.client.Get(ctx, cacheKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read export cache: %w", err)
	}
	return body, true, nil
}

func (c *RedisCache) Set(ctx context.Context, id, body string) error {
	if err := c.client.Set(ctx, cacheKey(id), body, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write export cache: %w", err)
	}
	return nil
}

type NoopCache struct{}

func (NoopCache) Get(context.Context, string) (string, bool, error) { return "", false, nil }

func (NoopCache) Set(context.Context, string, string) error { return nil }
