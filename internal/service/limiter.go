package service

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const limiterTTL = 10 * time.Minute

type limiterEntry struct {
	l        *rate.Limiter
	lastSeen time.Time
}

// commandLimiter keeps one token bucket per user. Idle buckets are dropped
// lazily on access, there is no background goroutine.
type commandLimiter struct {
	mu        sync.Mutex
	m         map[string]*limiterEntry
	rps       rate.Limit
	burst     int
	lastPrune time.Time
}

func newCommandLimiter(rps float64, burst int) *commandLimiter {
	if rps <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	return &commandLimiter{
		m:         make(map[string]*limiterEntry),
		rps:       rate.Limit(rps),
		burst:     burst,
		lastPrune: time.Now(),
	}
}

// Allow reports whether userID may run another command now. A nil limiter
// allows everything.
func (l *commandLimiter) Allow(userID string) bool {
	if l == nil {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if now.Sub(l.lastPrune) > limiterTTL {
		cutoff := now.Add(-limiterTTL)
		for key, e := range l.m {
			if e.lastSeen.Before(cutoff) {
				delete(l.m, key)
			}
		}
		l.lastPrune = now
	}

	e, ok := l.m[userID]
	if !ok {
		e = &limiterEntry{l: rate.NewLimiter(l.rps, l.burst)}
		l.m[userID] = e
	}
	e.lastSeen = now

	return e.l.Allow()
}
