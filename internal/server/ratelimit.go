package server

import (
	"sync"
	"time"
)

// RateLimiter enforces a minimum interval per key. It guards the inbound
// player-event path, where embedded players can report far more often than
// reconciliation needs.
type RateLimiter struct {
	mu          sync.Mutex
	minInterval time.Duration
	lastSeen    map[string]time.Time
}

func NewRateLimiter(minInterval time.Duration) *RateLimiter {
	return &RateLimiter{
		minInterval: minInterval,
		lastSeen:    map[string]time.Time{},
	}
}

func (r *RateLimiter) Allow(key string) (bool, time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.minInterval <= 0 {
		return true, 0
	}

	now := time.Now()
	last, ok := r.lastSeen[key]
	if !ok {
		r.pruneLocked(now)
		r.lastSeen[key] = now
		return true, 0
	}
	elapsed := now.Sub(last)
	if elapsed < r.minInterval {
		return false, r.minInterval - elapsed
	}
	r.lastSeen[key] = now
	return true, 0
}

// pruneLocked drops keys idle for many intervals so short-lived player ids
// cannot grow the map without bound.
func (r *RateLimiter) pruneLocked(now time.Time) {
	cutoff := now.Add(-100 * r.minInterval)
	for key, last := range r.lastSeen {
		if last.Before(cutoff) {
			delete(r.lastSeen, key)
		}
	}
}
