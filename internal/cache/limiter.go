package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter decides whether a caller identified by key has exceeded its
// allowance. *Client satisfies it through Redis.
type RateLimiter interface {
	IsRateLimited(ctx context.Context, key string) bool
}

var (
	_ RateLimiter = (*Client)(nil)
	_ RateLimiter = (*MemoryLimiter)(nil)
)

// MemoryLimiter is the in-process fallback used when Redis is not
// configured: one token bucket per key refilling perMinute tokens a minute.
type MemoryLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func NewMemoryLimiter(perMinute int) *MemoryLimiter {
	return &MemoryLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Every(time.Minute / time.Duration(max(perMinute, 1))),
		burst:    perMinute,
	}
}

func (m *MemoryLimiter) IsRateLimited(_ context.Context, key string) bool {
	if m.burst <= 0 {
		return false
	}
	return !m.limiter(key).Allow()
}

func (m *MemoryLimiter) limiter(key string) *rate.Limiter {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.limiters[key]
	if !ok {
		l = rate.NewLimiter(m.limit, m.burst)
		m.limiters[key] = l
	}
	return l
}
