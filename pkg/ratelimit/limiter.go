// Package ratelimit provides a keyed token-bucket rate limiter.
//
// Each key (typically a client IP) gets its own golang.org/x/time/rate bucket.
// Buckets live in a size-bounded LRU whose entries expire after a period of
// inactivity, so memory stays flat no matter how many distinct clients appear.
package ratelimit

import (
	"math"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

// Limiter hands out one token bucket per key. It is safe for concurrent use.
type Limiter struct {
	config  Config
	every   rate.Limit
	buckets *expirable.LRU[string, *rate.Limiter]
	now     func() time.Time

	// mu serialises bucket creation so two first requests from the same key
	// share one bucket.
	mu sync.Mutex
}

// New creates a limiter. The configuration is assumed to be valid.
func New(cfg Config) *Limiter {
	return &Limiter{
		config:  cfg,
		every:   rate.Every(cfg.Window / time.Duration(cfg.Limit)),
		buckets: expirable.NewLRU[string, *rate.Limiter](cfg.MaxKeys, nil, cfg.IdleTTL),
		now:     time.Now,
	}
}

// Allow consumes one token from key's bucket.
func (l *Limiter) Allow(key string) Decision {
	if !l.config.Enabled {
		return Decision{Key: key, Allowed: true, Limit: l.config.Limit, Remaining: l.config.Burst}
	}

	now := l.now()
	bucket := l.bucket(key)

	r := bucket.ReserveN(now, 1)
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return Decision{
			Key:        key,
			Allowed:    false,
			Limit:      l.config.Limit,
			RetryAfter: delay,
		}
	}

	return Decision{
		Key:       key,
		Allowed:   true,
		Limit:     l.config.Limit,
		Remaining: int(math.Max(0, math.Floor(bucket.TokensAt(now)))),
	}
}

// Len returns the number of keys currently tracked.
func (l *Limiter) Len() int {
	return l.buckets.Len()
}

func (l *Limiter) bucket(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets.Get(key)
	if !ok {
		b = rate.NewLimiter(l.every, l.config.Burst)
	}
	// Re-adding pushes the idle expiry forward.
	l.buckets.Add(key, b)
	return b
}
