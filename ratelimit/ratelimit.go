// Package ratelimit admits at most one request per caller within a cool-down window.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter decides whether a caller identified by key may proceed
type Limiter interface {
	Allow(key string) bool
}

// MemoryLimiter keeps the last admitted time per key in memory
type MemoryLimiter struct {
	mu       sync.Mutex
	last     map[string]time.Time
	cooldown time.Duration
	now      func() time.Time
}

// sweepThreshold bounds the map before expired keys are pruned
const sweepThreshold = 1024

// NewMemoryLimiter creates an in-memory limiter. A nil clock means time.Now.
func NewMemoryLimiter(cooldown time.Duration, now func() time.Time) *MemoryLimiter {
	if now == nil {
		now = time.Now
	}
	return &MemoryLimiter{last: make(map[string]time.Time), cooldown: cooldown, now: now}
}

// Allow admits the key when its previous admission is older than the cool-down
func (l *MemoryLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if prev, ok := l.last[key]; ok && now.Sub(prev) < l.cooldown {
		return false
	}
	if len(l.last) >= sweepThreshold {
		for k, t := range l.last {
			if now.Sub(t) >= l.cooldown {
				delete(l.last, k)
			}
		}
	}
	l.last[key] = now
	return true
}
