// Package newsapi is the client for the upstream news search API.
//
// Every call is rate limited and runs through a circuit breaker. Any transport
// failure, non-2xx response, non-"ok" status or undecodable body is a total failure
// of that call; partial results are never returned.
package newsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"maroc-actualites/internal/domain/entity"
	"maroc-actualites/internal/observability/metrics"
	"maroc-actualites/internal/resilience/circuitbreaker"
	"maroc-actualites/internal/resilience/retry"
	"maroc-actualites/internal/usecase/news"
)

var (
	// ErrMissingAPIKey is returned by NewClient when no credential is configured.
	ErrMissingAPIKey = errors.New("newsapi: missing API key")

	// ErrUpstreamStatus means the response body carried a status other than "ok".
	ErrUpstreamStatus = errors.New("newsapi: upstream status not ok")

	// ErrMalformedResponse means the response body could not be decoded.
	ErrMalformedResponse = errors.New("newsapi: malformed response")
)

const (
	kindCategory = "category"
	kindLatest   = "latest"
	kindSearch   = "search"

	maxPageSize = 100

	sortPublishedAt = "publishedAt"
	sortRelevancy   = "relevancy"
)

// Client queries the upstream search API. It is safe for concurrent use.
type Client struct {
	config     Config
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *circuitbreaker.CircuitBreaker
	logger     *slog.Logger
	now        func() time.Time
}

var _ news.ArticleSearcher = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client. Its Timeout is left untouched.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithBreaker replaces the circuit breaker.
func WithBreaker(cb *circuitbreaker.CircuitBreaker) Option {
	return func(c *Client) { c.breaker = cb }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithClock sets the clock used for article ids.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// NewClient creates a Client. It returns ErrMissingAPIKey when cfg has no credential.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if !cfg.HasCredential() {
		return nil, ErrMissingAPIKey
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		config:     cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), cfg.Burst),
		breaker:    circuitbreaker.New(circuitbreaker.NewsAPIConfig()),
		logger:     slog.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BreakerState returns the circuit breaker state ("closed", "half-open" or "open").
func (c *Client) BreakerState() string {
	return c.breaker.State().String()
}

// SearchCategory queries with the category search terms, newest first.
func (c *Client) SearchCategory(ctx context.Context, cat entity.Category, opts news.SearchOptions) ([]entity.Article, error) {
	params := c.baseParams(cat.Query, sortPublishedAt, opts.PageSize)
	setFrom(params, opts.From)
	return c.search(ctx, kindCategory, cat.Slug, params)
}

// SearchLatest queries with the national keyword, newest first.
func (c *Client) SearchLatest(ctx context.Context, opts news.SearchOptions) ([]entity.Article, error) {
	params := c.baseParams(c.config.NationalKeyword, sortPublishedAt, opts.PageSize)
	setFrom(params, opts.From)
	return c.search(ctx, kindLatest, entity.DefaultCategory, params)
}

// SearchText runs a free-text query prefixed with the national keyword, by relevance.
func (c *Client) SearchText(ctx context.Context, query string, opts news.SearchOptions) ([]entity.Article, error) {
	q := strings.TrimSpace(c.config.NationalKeyword + " " + strings.TrimSpace(query))
	params := c.baseParams(q, sortRelevancy, opts.PageSize)
	return c.search(ctx, kindSearch, entity.DefaultCategory, params)
}

func (c *Client) baseParams(q, sortBy string, pageSize int) url.Values {
	params := url.Values{}
	params.Set("q", q)
	params.Set("language", c.config.Language)
	params.Set("sortBy", sortBy)
	params.Set("pageSize", strconv.Itoa(clampPageSize(pageSize)))
	params.Set("apiKey", c.config.APIKey)
	return params
}

func setFrom(params url.Values, from time.Time) {
	if !from.IsZero() {
		params.Set("from", from.UTC().Format("2006-01-02"))
	}
}

func clampPageSize(n int) int {
	switch {
	case n < 1:
		return 1
	case n > maxPageSize:
		return maxPageSize
	default:
		return n
	}
}

// search runs one upstream call. Config.Timeout bounds the whole call, including the
// wait for a rate limiter token: a wait that cannot finish in time fails at once.
func (c *Client) search(ctx context.Context, kind, category string, params url.Values) ([]entity.Article, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		metrics.RecordUpstreamRequest(kind, false, 0, 0)
		c.logger.Warn("newsapi request throttled",
			slog.String("kind", kind),
			slog.Any("error", err))
		return nil, fmt.Errorf("newsapi %s: rate limiter: %w", kind, err)
	}

	start := time.Now()
	articles, err := circuitbreaker.Do(c.breaker, func() ([]entity.Article, error) {
		return c.do(ctx, category, params)
	})
	duration := time.Since(start)
	metrics.RecordUpstreamRequest(kind, err == nil, duration, len(articles))

	if err != nil {
		c.logger.Warn("newsapi request failed",
			slog.String("kind", kind),
			slog.String("url", c.maskedURL(params)),
			slog.Duration("duration", duration),
			slog.Any("error", err))
		return nil, fmt.Errorf("newsapi %s: %w", kind, err)
	}

	c.logger.Debug("newsapi request completed",
		slog.String("kind", kind),
		slog.String("url", c.maskedURL(params)),
		slog.Int("articles", len(articles)),
		slog.Duration("duration", duration))
	return articles, nil
}

func (c *Client) do(ctx context.Context, category string, params url.Values) ([]entity.Article, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "maroc-actualites/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// url.Error embeds the request URL, which carries the key.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			uerr.URL = c.maskedURL(params)
		}
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body := io.LimitReader(resp.Body, c.config.MaxResponseBytes)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &retry.HTTPError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(body),
		}
	}

	var payload searchResponse
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if payload.Status != "ok" {
		return nil, fmt.Errorf("%w: status=%q code=%q message=%q",
			ErrUpstreamStatus, payload.Status, payload.Code, payload.Message)
	}

	return mapArticles(payload.Articles, category, c.now()), nil
}

// errorMessage extracts the upstream error message from an error body, if any.
func errorMessage(body io.Reader) string {
	var payload searchResponse
	if err := json.NewDecoder(io.LimitReader(body, 4096)).Decode(&payload); err != nil {
		return "upstream error"
	}
	if payload.Code != "" {
		return payload.Code + ": " + payload.Message
	}
	if payload.Message != "" {
		return payload.Message
	}
	return "upstream error"
}

// maskedURL renders the request URL with the API key hidden, for logs.
func (c *Client) maskedURL(params url.Values) string {
	masked := url.Values{}
	for k, v := range params {
		masked[k] = v
	}
	masked.Set("apiKey", "***")
	return c.config.BaseURL + "?" + masked.Encode()
}
