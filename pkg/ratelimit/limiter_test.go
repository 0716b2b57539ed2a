package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestLimiter(cfg Config) (*Limiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	l := New(cfg)
	l.now = clock.Now
	return l, clock
}

// ────────────────────────────────────────────────────────────
// Allow
// ────────────────────────────────────────────────────────────

func TestLimiter_BurstThenDeny(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Limit = 60
	cfg.Burst = 3
	l, _ := newTestLimiter(cfg)

	for i := 0; i < 3; i++ {
		d := l.Allow("10.0.0.1")
		require.True(t, d.Allowed, "request %d", i)
		assert.Equal(t, 2-i, d.Remaining)
	}

	denied := l.Allow("10.0.0.1")
	assert.False(t, denied.Allowed)
	assert.Equal(t, 60, denied.Limit)
	assert.InDelta(t, time.Second, denied.RetryAfter, float64(10*time.Millisecond))
	assert.Equal(t, 1, denied.RetryAfterSeconds())
}

func TestLimiter_Refill(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Burst = 1
	l, clock := newTestLimiter(cfg)

	require.True(t, l.Allow("a").Allowed)
	require.False(t, l.Allow("a").Allowed)

	clock.Advance(time.Second)
	assert.True(t, l.Allow("a").Allowed)
}

func TestLimiter_DeniedRequestsDoNotDrainBucket(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Burst = 1
	l, clock := newTestLimiter(cfg)

	require.True(t, l.Allow("a").Allowed)
	for i := 0; i < 5; i++ {
		require.False(t, l.Allow("a").Allowed)
	}

	clock.Advance(time.Second)
	assert.True(t, l.Allow("a").Allowed)
}

func TestLimiter_KeysAreIndependent(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Burst = 1
	l, _ := newTestLimiter(cfg)

	assert.True(t, l.Allow("a").Allowed)
	assert.False(t, l.Allow("a").Allowed)
	assert.True(t, l.Allow("b").Allowed)
	assert.Equal(t, 2, l.Len())
}

func TestLimiter_Disabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled = false
	cfg.Burst = 1
	l, _ := newTestLimiter(cfg)

	for i := 0; i < 10; i++ {
		assert.True(t, l.Allow("a").Allowed)
	}
	assert.Zero(t, l.Len())
}

func TestLimiter_MaxKeysBoundsMemory(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxKeys = 5
	l, _ := newTestLimiter(cfg)

	for i := 0; i < 50; i++ {
		l.Allow(fmt.Sprintf("10.0.0.%d", i))
	}
	assert.Equal(t, 5, l.Len())
}

func TestLimiter_ConcurrentSameKey(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Burst = 10
	l, _ := newTestLimiter(cfg)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Allow("shared").Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, allowed)
}

// ────────────────────────────────────────────────────────────
// Decision & Config
// ────────────────────────────────────────────────────────────

func TestDecision_RetryAfterSeconds(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want int
	}{
		{in: 0, want: 1},
		{in: 200 * time.Millisecond, want: 1},
		{in: time.Second, want: 1},
		{in: 1500 * time.Millisecond, want: 2},
	}
	for _, tt := range tests {
		t.Run(tt.in.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, Decision{RetryAfter: tt.in}.RetryAfterSeconds())
		})
	}
}

func TestDecision_String(t *testing.T) {
	assert.Contains(t, Decision{Key: "a", Allowed: true, Remaining: 2, Limit: 5}.String(), "2/5")
	assert.Contains(t, Decision{Key: "a", RetryAfter: time.Second}.String(), "RetryAfter: 1s")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "default", mutate: func(*Config) {}},
		{name: "zero limit", mutate: func(c *Config) { c.Limit = 0 }, wantErr: true},
		{name: "zero window", mutate: func(c *Config) { c.Window = 0 }, wantErr: true},
		{name: "zero burst", mutate: func(c *Config) { c.Burst = 0 }, wantErr: true},
		{name: "zero max keys", mutate: func(c *Config) { c.MaxKeys = 0 }, wantErr: true},
		{name: "zero idle ttl", mutate: func(c *Config) { c.IdleTTL = 0 }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if tt.wantErr {
				assert.Error(t, cfg.Validate())
			} else {
				assert.NoError(t, cfg.Validate())
			}
		})
	}
}
