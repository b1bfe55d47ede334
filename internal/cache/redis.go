package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

type Client struct {
	rdb         *redis.Client
	maxRequests int
	window      time.Duration
}

// NewClient connects to Redis and verifies the connection. maxRequests is
// the per-window allowance used by IsRateLimited.
func NewClient(addr string, maxRequests int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", addr, err)
	}

	return &Client{rdb: rdb, maxRequests: maxRequests, window: time.Minute}, nil
}

// IsRateLimited counts a request for key in a fixed one-minute window.
// Redis errors let the request through.
func (c *Client) IsRateLimited(ctx context.Context, key string) bool {
	if c.maxRequests <= 0 {
		return false
	}
	redisKey := fmt.Sprintf("ratelimit:%s", key)

	pipe := c.rdb.Pipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, c.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false
	}

	return incr.Val() > int64(c.maxRequests)
}

func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	return c.rdb.Get(ctx, key).Bytes()
}

func (c *Client) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, data, ttl).Err()
}

func (c *Client) Close() error {
	return c.rdb.Close()
}
