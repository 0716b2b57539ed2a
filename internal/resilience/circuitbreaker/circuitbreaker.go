// Package circuitbreaker guards outbound calls to the news search API and to the
// refresh endpoint with sony/gobreaker.
package circuitbreaker

import (
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// ErrOpen is returned by Do when the circuit is open or the half-open trial budget
// is exhausted.
var ErrOpen = errors.New("circuit breaker open")

// Config describes when a breaker trips and how long it stays open.
type Config struct {
	Name string

	// MaxRequests is the number of trial calls let through while half-open.
	MaxRequests uint32

	// Interval clears the closed-state counts. Zero never clears them.
	Interval time.Duration

	// Timeout is the open period before the breaker goes half-open.
	Timeout time.Duration

	// FailureThreshold is the failure ratio (0-1) that trips the breaker once
	// MinRequests calls were counted.
	FailureThreshold float64
	MinRequests      uint32
}

// NewsAPIConfig returns configuration for the upstream news search API.
// The open state is short: every request already has a sample-set fallback, so the
// breaker only spares the upstream (and our quota) during an outage.
func NewsAPIConfig() Config {
	return Config{
		Name:             "newsapi",
		MaxRequests:      2,
		Interval:         60 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      4,
	}
}

// RefreshTriggerConfig returns configuration for the worker's calls to the API
// refresh endpoint.
func RefreshTriggerConfig() Config {
	return Config{
		Name:             "refresh-trigger",
		MaxRequests:      1,
		Interval:         10 * time.Minute,
		Timeout:          5 * time.Minute,
		FailureThreshold: 0.8,
		MinRequests:      3,
	}
}

// CircuitBreaker is a named gobreaker breaker.
type CircuitBreaker struct {
	breaker *gobreaker.CircuitBreaker
}

// New creates a breaker from cfg. State changes are logged at warn level.
func New(cfg Config) *CircuitBreaker {
	return &CircuitBreaker{
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        cfg.Name,
			MaxRequests: cfg.MaxRequests,
			Interval:    cfg.Interval,
			Timeout:     cfg.Timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				if counts.Requests < cfg.MinRequests {
					return false
				}
				return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureThreshold
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				slog.Warn("circuit breaker state changed",
					slog.String("circuit", name),
					slog.String("from", from.String()),
					slog.String("to", to.String()))
			},
		}),
	}
}

// Do runs fn through the breaker and returns its typed result.
// Open-state rejections are reported as ErrOpen.
//
// Example:
//
//	articles, err := circuitbreaker.Do(cb, func() ([]entity.Article, error) {
//	    return c.do(ctx, category, params)
//	})
func Do[T any](cb *CircuitBreaker, fn func() (T, error)) (T, error) {
	res, err := cb.breaker.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		var zero T
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, errors.Join(ErrOpen, err)
		}
		return zero, err
	}
	return res.(T), nil
}

// State returns the current breaker state.
func (cb *CircuitBreaker) State() gobreaker.State {
	return cb.breaker.State()
}
