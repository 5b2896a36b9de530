package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/PrazoCerto/pkg/errors"
)

// RateLimiter decides whether one more request for key is allowed.
type RateLimiter interface {
	Allow(key string) (bool, RateLimitInfo)
}

// RateLimitInfo is the limiter state reported in response headers.
type RateLimitInfo struct {
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RateLimitConfig holds configuration for the rate limit middleware.
type RateLimitConfig struct {
	// KeyFunc extracts the limiting key. Defaults to the client IP.
	KeyFunc   func(c *gin.Context) string
	SkipPaths []string
}

// ─────────────────────────────────────────────────────────────────────────────
// Token bucket
// ─────────────────────────────────────────────────────────────────────────────

type tokenBucket struct {
	mu         sync.Mutex
	tokens     float64
	lastRefill time.Time
}

// TokenBucketLimiter keeps one in-memory token bucket per key. Idle buckets
// are swept every cleanupInterval.
type TokenBucketLimiter struct {
	rate      float64
	burst     int
	now       func() time.Time
	mu        sync.RWMutex
	buckets   map[string]*tokenBucket
	stop      chan struct{}
	stopOnce  sync.Once
	sweepIdle time.Duration
}

// NewTokenBucketLimiter allows rate requests per second per key with bursts
// up to burst. A positive cleanupInterval starts the sweeper; call Stop to
// end it.
func NewTokenBucketLimiter(rate float64, burst int, cleanupInterval time.Duration) *TokenBucketLimiter {
	if burst < 1 {
		burst = 1
	}
	l := &TokenBucketLimiter{
		rate:      rate,
		burst:     burst,
		now:       time.Now,
		buckets:   make(map[string]*tokenBucket),
		stop:      make(chan struct{}),
		sweepIdle: cleanupInterval,
	}
	if cleanupInterval > 0 {
		go l.sweepLoop(cleanupInterval)
	}
	return l
}

// Allow implements RateLimiter.
func (l *TokenBucketLimiter) Allow(key string) (bool, RateLimitInfo) {
	now := l.now()

	l.mu.RLock()
	b, ok := l.buckets[key]
	l.mu.RUnlock()
	if !ok {
		l.mu.Lock()
		if b, ok = l.buckets[key]; !ok {
			b = &tokenBucket{tokens: float64(l.burst), lastRefill: now}
			l.buckets[key] = b
		}
		l.mu.Unlock()
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.tokens += now.Sub(b.lastRefill).Seconds() * l.rate
	if b.tokens > float64(l.burst) {
		b.tokens = float64(l.burst)
	}
	b.lastRefill = now

	info := RateLimitInfo{Limit: l.burst, ResetAt: now.Add(time.Duration(float64(time.Second) / l.rate))}
	if b.tokens >= 1 {
		b.tokens--
		info.Remaining = int(b.tokens)
		return true, info
	}
	return false, info
}

func (l *TokenBucketLimiter) sweepLoop(every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			l.sweep()
		case <-l.stop:
			return
		}
	}
}

// sweep drops buckets that refilled completely and saw no traffic for a
// whole interval.
func (l *TokenBucketLimiter) sweep() {
	threshold := l.now().Add(-l.sweepIdle)
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, b := range l.buckets {
		b.mu.Lock()
		if b.lastRefill.Before(threshold) {
			delete(l.buckets, key)
		}
		b.mu.Unlock()
	}
}

// Stop ends the sweeper. It is safe to call more than once.
func (l *TokenBucketLimiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

// BucketCount returns the number of tracked keys.
func (l *TokenBucketLimiter) BucketCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.buckets)
}

// ─────────────────────────────────────────────────────────────────────────────
// Middleware
// ─────────────────────────────────────────────────────────────────────────────

// RateLimit rejects requests over the limit with 429 and Retry-After.
func RateLimit(limiter RateLimiter, config RateLimitConfig) gin.HandlerFunc {
	skip := make(map[string]bool, len(config.SkipPaths))
	for _, p := range config.SkipPaths {
		skip[p] = true
	}
	keyFunc := config.KeyFunc
	if keyFunc == nil {
		keyFunc = func(c *gin.Context) string { return c.ClientIP() }
	}

	return func(c *gin.Context) {
		if skip[c.Request.URL.Path] {
			c.Next()
			return
		}
		ok, info := limiter.Allow(keyFunc(c))
		c.Header("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(info.ResetAt.Unix(), 10))
		if ok {
			c.Next()
			return
		}

		retry := int(time.Until(info.ResetAt).Seconds())
		if retry < 1 {
			retry = 1
		}
		c.Header("Retry-After", strconv.Itoa(retry))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"code":       errors.ErrCodeTooManyRequests.String(),
			"message":    "rate limit exceeded, please retry later",
			"request_id": GetRequestID(c),
		})
	}
}

//Personal.AI order the ending
