package server

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type bucket struct {
	limiter *rate.Limiter
	last    time.Time
}

// Limiter allows up to n requests per window for each key, refilling continuously.
type Limiter struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	window  time.Duration
	buckets map[string]*bucket
	swept   time.Time
	now     func() time.Time
}

// NewLimiter returns a limiter allowing n requests per window for each key.
func NewLimiter(n int, window time.Duration) *Limiter {
	if n < 1 {
		n = 1
	}
	return &Limiter{
		limit:   rate.Every(window / time.Duration(n)),
		burst:   n,
		window:  window,
		buckets: map[string]*bucket{},
		now:     time.Now,
	}
}

// Allow reports whether a request for key may proceed and consumes one token if so.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[key] = b
	}
	b.last = now
	return b.limiter.AllowN(now, 1)
}

// Len returns the number of tracked keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// sweep drops buckets idle for a full window at most once per window, a bucket idle that long has refilled.
func (l *Limiter) sweep(now time.Time) {
	if now.Sub(l.swept) < l.window {
		return
	}
	for key, b := range l.buckets {
		if l.window <= now.Sub(b.last) {
			delete(l.buckets, key)
		}
	}
	l.swept = now
}
