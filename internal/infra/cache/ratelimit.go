package cache

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisCounter implements fixed-window counters on Redis.
type RedisCounter struct {
	client *redis.Client
}

// NewRedisCounter connects to url (redis://...). It returns nil, nil when url
// is empty so callers can run without Redis.
func NewRedisCounter(ctx context.Context, url string) (*RedisCounter, error) {
	if url == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &RedisCounter{client: client}, nil
}

func NewRedisCounterFromClient(client *redis.Client) *RedisCounter {
	return &RedisCounter{client: client}
}

// Incr bumps the counter for key and returns its value in the current window.
// The window starts with the first hit.
func (c *RedisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	n, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if n == 1 {
		if err := c.client.Expire(ctx, key, window).Err(); err != nil {
			return n, err
		}
	}
	return n, nil
}

func (c *RedisCounter) Close() error {
	return c.client.Close()
}
