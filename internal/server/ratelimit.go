package server

import (
	"sync"
	"time"
)

// rateLimiter is a per-client sliding window. A non-positive limit disables
// limiting entirely.
type rateLimiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	seen   map[string][]time.Time
	now    func() time.Time
}

func newRateLimiter(limit int, window time.Duration) *rateLimiter {
	return &rateLimiter{
		limit:  limit,
		window: window,
		seen:   make(map[string][]time.Time),
		now:    time.Now,
	}
}

// Allow reports whether the client identified by key may make a request now,
// and records it when allowed.
func (l *rateLimiter) Allow(key string) bool {
	if l.limit <= 0 {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)
	stamps := l.seen[key][:0]
	for _, t := range l.seen[key] {
		if t.After(cutoff) {
			stamps = append(stamps, t)
		}
	}
	if len(stamps) >= l.limit {
		l.seen[key] = stamps
		return false
	}
	l.seen[key] = append(stamps, now)
	return true
}
