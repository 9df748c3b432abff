// In-memory token-bucket rate limiting.
//
// The limiter is process-local, which matches how the bot deploys: one
// binary, one SQLite file. A horizontally scaled setup would need a shared
// limiter instead. This is abuse control for the operations API, not an
// authorization mechanism.
package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	// bucketIdleTTL is how long an untouched bucket survives before the
	// opportunistic sweep may evict it.
	bucketIdleTTL = 10 * time.Minute
	// gcEveryNLookups sets how many bucket lookups pass between sweeps.
	gcEveryNLookups = 5000
)

// keyFunc maps a request to the identity string that names its bucket.
type keyFunc func(*gin.Context) string

// KeyByClientIP buckets requests by client IP. The operations API carries no
// caller identity, so the remote address is the only stable key available.
// Keys are prefixed ("ip:203.0.113.7") so an identity-aware keyFunc added
// later cannot collide with the IP namespace.
func KeyByClientIP() keyFunc {
	return func(c *gin.Context) string {
		return "ip:" + c.ClientIP()
	}
}

// bucket pairs a limiter with its last-touched time for idle eviction.
type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter enforces a per-key token bucket. Buckets are created on demand
// in a mutex-guarded map and idle ones are swept opportunistically during
// lookups, so memory stays bounded without a background goroutine. Safe for
// concurrent use.
type RateLimiter struct {
	rps   rate.Limit
	burst int
	keyFn keyFunc

	mu      sync.Mutex
	buckets map[string]*bucket
	lookups uint64
	ttl     time.Duration
}

// NewRateLimiter builds a limiter replenishing rps tokens per second with
// the given burst capacity. A burst <= 0 is coerced to 1 so a misconfigured
// limiter still lets single requests through.
func NewRateLimiter(rps float64, burst int, keyFn keyFunc) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		rps:     rate.Limit(rps),
		burst:   burst,
		keyFn:   keyFn,
		buckets: make(map[string]*bucket),
		ttl:     bucketIdleTTL,
	}
}

// limiterFor returns the limiter for key, creating it if absent. Every
// gcEveryNLookups calls it first sweeps idle buckets; the sweep runs before
// the requested bucket is touched so a stale entry can be evicted even when
// it is the one being fetched.
func (rl *RateLimiter) limiterFor(key string) *rate.Limiter {
	now := time.Now()

	rl.mu.Lock()
	rl.lookups++
	if rl.lookups >= gcEveryNLookups {
		for k, b := range rl.buckets {
			if now.Sub(b.lastSeen) >= rl.ttl {
				delete(rl.buckets, k)
			}
		}
		rl.lookups = 0
	}

	if b, ok := rl.buckets[key]; ok {
		b.lastSeen = now
		lim := b.limiter
		rl.mu.Unlock()
		return lim
	}

	lim := rate.NewLimiter(rl.rps, rl.burst)
	rl.buckets[key] = &bucket{limiter: lim, lastSeen: now}
	rl.mu.Unlock()
	return lim
}

// Handler rejects over-limit requests with 429, a one-second Retry-After,
// and the standard error body shape the handlers package uses.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.limiterFor(rl.keyFn(c)).Allow() {
			c.Next()
			return
		}

		c.Header("Retry-After", "1")
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"request_id": c.Writer.Header().Get(requestIDHeader),
			"code":       "rate_limited",
			"message":    "rate limit exceeded",
		})
	}
}
