package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// RateLimiter provides rate limiting functionality
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Reset(ctx context.Context, key string) error
}

// TokenBucketLimiter keeps one token bucket per key. Buckets idle for longer
// than the expiry are dropped.
type TokenBucketLimiter struct {
	mu      sync.Mutex
	buckets *cache.Cache
	limit   rate.Limit
	burst   int
}

// NewTokenBucketLimiter allows burst requests at once, refilled at limit per second.
func NewTokenBucketLimiter(limit rate.Limit, burst int, idleExpiry time.Duration) *TokenBucketLimiter {
	return &TokenBucketLimiter{
		buckets: cache.New(idleExpiry, idleExpiry*2),
		limit:   limit,
		burst:   burst,
	}
}

// Allow checks if a request is allowed
func (l *TokenBucketLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	var limiter *rate.Limiter
	if v, ok := l.buckets.Get(key); ok {
		limiter = v.(*rate.Limiter)
	} else {
		limiter = rate.NewLimiter(l.limit, l.burst)
	}
	// refresh the idle expiry
	l.buckets.SetDefault(key, limiter)
	l.mu.Unlock()

	return limiter.Allow(), nil
}

// Reset resets the rate limit for a key
func (l *TokenBucketLimiter) Reset(_ context.Context, key string) error {
	l.buckets.Delete(key)
	return nil
}

// IPRateLimiter wraps a rate limiter for IP-based limiting
type IPRateLimiter struct {
	limiter RateLimiter
}

// NewIPRateLimiter creates a new IP-based rate limiter
func NewIPRateLimiter(requestsPerMinute int) *IPRateLimiter {
	perSecond := rate.Limit(float64(requestsPerMinute) / 60)
	return &IPRateLimiter{
		limiter: NewTokenBucketLimiter(perSecond, requestsPerMinute, 10*time.Minute),
	}
}

// Allow checks if a request from an IP is allowed
func (l *IPRateLimiter) Allow(ctx context.Context, ip string) (bool, error) {
	return l.limiter.Allow(ctx, fmt.Sprintf("ip:%s", ip))
}
