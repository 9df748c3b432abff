// Package bot – Throttle
//
// This file implements the per-chat token bucket guarding summary
// generation. Buckets are created on demand and idle ones are evicted
// opportunistically during lookups so memory stays bounded. The limiter is
// process-local; with a single bot process per token that is the global
// limit.
package bot

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// chatBucket holds one chat's limiter and the last time it was used.
type chatBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Throttle applies a per-chat token bucket to summary generation.
// Safe for concurrent use.
type Throttle struct {
	perMin float64
	burst  int

	mu       sync.Mutex
	chats    map[int64]*chatBucket
	ttl      time.Duration
	lookups  uint64
}

// NewThrottle builds a Throttle allowing perMin summaries per minute per
// chat with the given burst. Burst values <= 0 are coerced to 1.
func NewThrottle(perMin float64, burst int) *Throttle {
	if burst <= 0 {
		burst = 1
	}
	return &Throttle{
		perMin: perMin,
		burst:  burst,
		chats:  make(map[int64]*chatBucket),
		ttl:    time.Hour, // evict chats idle for this long
	}
}

// Allow reports whether the chat may generate a summary now, consuming one
// token when it may. Denials consume nothing.
func (t *Throttle) Allow(chatID int64) bool {
	now := time.Now()

	t.mu.Lock()
	// Opportunistic cleanup after a threshold of lookups, before touching
	// the requested bucket so an idle one can be evicted even when it is
	// the one being fetched.
	t.lookups++
	if t.lookups >= 1000 {
		for id, cb := range t.chats {
			if now.Sub(cb.lastSeen) >= t.ttl {
				delete(t.chats, id)
			}
		}
		t.lookups = 0
	}

	cb, ok := t.chats[chatID]
	if !ok {
		cb = &chatBucket{limiter: rate.NewLimiter(rate.Limit(t.perMin/60), t.burst)}
		t.chats[chatID] = cb
	}
	cb.lastSeen = now
	lim := cb.limiter
	t.mu.Unlock()

	return lim.Allow()
}
