// Package refresher is the worker's client for the API refresh endpoint.
package refresher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"maroc-actualites/internal/resilience/circuitbreaker"
	"maroc-actualites/internal/resilience/retry"
)

// ErrUnauthorized means the API rejected the refresh secret. It is not retried.
var ErrUnauthorized = errors.New("refresher: refresh secret rejected")

// maxErrorBody bounds how much of an error response is kept for logging.
const maxErrorBody = 512

// Config holds the refresh target.
type Config struct {
	// URL is the full refresh endpoint, e.g. http://api:8080/api/cron/refresh.
	URL string
	// Secret is sent as a bearer token when set.
	Secret string
	// Timeout bounds one attempt. A refresh validates every category, so it is long.
	Timeout time.Duration
}

// CategoryReport is one category line of a refresh report.
type CategoryReport struct {
	Slug     string `json:"slug"`
	Origin   string `json:"origin"`
	Outcome  string `json:"outcome"`
	Fetched  int    `json:"fetched"`
	Valid    int    `json:"valid"`
	Rejected int    `json:"rejected"`
	Returned int    `json:"returned"`
}

// Report is the decoded refresh response.
type Report struct {
	Status      string           `json:"status"`
	RefreshedAt time.Time        `json:"refreshed_at"`
	DurationMs  int64            `json:"duration_ms"`
	Message     string           `json:"message"`
	LiveCount   int              `json:"live_count"`
	Categories  []CategoryReport `json:"categories"`
}

// CountByOrigin tallies the categories per origin ("live", "sample").
func (r Report) CountByOrigin() map[string]int {
	out := make(map[string]int, 2)
	for _, c := range r.Categories {
		out[c.Origin]++
	}
	return out
}

// Client triggers refreshes with retry and a circuit breaker.
type Client struct {
	config     Config
	httpClient *http.Client
	breaker    *circuitbreaker.CircuitBreaker
	retry      retry.Config
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithRetryConfig replaces the retry policy.
func WithRetryConfig(cfg retry.Config) Option {
	return func(c *Client) { c.retry = cfg }
}

// WithBreaker replaces the circuit breaker.
func WithBreaker(cb *circuitbreaker.CircuitBreaker) Option {
	return func(c *Client) { c.breaker = cb }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a Client.
func NewClient(cfg Config, opts ...Option) *Client {
	c := &Client{
		config:     cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    circuitbreaker.New(circuitbreaker.RefreshTriggerConfig()),
		retry:      retry.RefreshTriggerConfig(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Trigger calls the refresh endpoint. 5xx, 429 and timeouts are retried with
// backoff; a 401 returns ErrUnauthorized immediately.
func (c *Client) Trigger(ctx context.Context) (Report, error) {
	var report Report
	err := retry.WithBackoff(ctx, c.retry, func() error {
		r, err := circuitbreaker.Do(c.breaker, func() (Report, error) {
			return c.do(ctx)
		})
		if err != nil {
			return err
		}
		report = r
		return nil
	})
	if err != nil {
		return Report{}, fmt.Errorf("trigger refresh: %w", err)
	}
	return report, nil
}

func (c *Client) do(ctx context.Context) (Report, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.URL, nil)
	if err != nil {
		return Report{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "maroc-actualites-worker/1.0")
	if c.config.Secret != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.Secret)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Report{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return Report{}, ErrUnauthorized
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return Report{}, &retry.HTTPError{StatusCode: resp.StatusCode, Message: string(body)}
	}

	var report Report
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return Report{}, fmt.Errorf("decode refresh response: %w", err)
	}
	return report, nil
}
