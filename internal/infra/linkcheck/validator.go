// Package linkcheck validates article links against the live page they point to.
//
// A link is rejected when the page is provably dead (404, 410, 5xx), has no title,
// carries an error-page title, or looks like a redirect to the publisher home page.
// Transport failures are accepted: a slow or bot-averse site is not evidence of a
// dead link.
package linkcheck

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"maroc-actualites/internal/domain/entity"
	"maroc-actualites/internal/observability/metrics"
)

// Validator checks article links with a single bounded fetch per call.
//
// Thread safety: Validator is safe for concurrent use.
type Validator struct {
	client   *http.Client
	config   Config
	resolver Resolver
	logger   *slog.Logger
}

// Option customises a Validator.
type Option func(*Validator)

// WithResolver replaces the DNS resolver used by the private-address guard.
func WithResolver(r Resolver) Option {
	return func(v *Validator) { v.resolver = r }
}

// WithTransport replaces the HTTP transport. Redirect handling is kept.
func WithTransport(rt http.RoundTripper) Option {
	return func(v *Validator) { v.client.Transport = rt }
}

// WithLogger sets the logger used for per-link debug output.
func WithLogger(l *slog.Logger) Option {
	return func(v *Validator) { v.logger = l }
}

// New creates a Validator with the given configuration.
//
// The HTTP client enforces TLS 1.2+, validates every redirect target (scheme and
// private-address guard) and stops after Config.MaxRedirects hops. With
// Config.DenyPrivateIPs the dialer also refuses private addresses after resolution. The per-call
// deadline comes from Config.Timeout through the request context, so the client
// itself carries no timeout.
//
// Example:
//
//	v := linkcheck.New(linkcheck.DefaultConfig())
//	res := v.Validate(ctx, article.URL, article.Title)
func New(config Config, opts ...Option) *Validator {
	v := &Validator{
		config:   config,
		resolver: net.DefaultResolver,
		logger:   slog.Default(),
	}

	dialer := &net.Dialer{
		Timeout:   config.Timeout,
		KeepAlive: 30 * time.Second,
	}
	if config.DenyPrivateIPs {
		dialer.Control = dialControl
	}

	v.client = &http.Client{
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			DialContext:         dialer.DialContext,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 4,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: config.Timeout,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
		CheckRedirect: v.checkRedirect,
	}

	for _, opt := range opts {
		opt(v)
	}
	return v
}

func (v *Validator) checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= v.config.MaxRedirects {
		return fmt.Errorf("%w: %d redirects", ErrTooManyRedirects, len(via))
	}
	if err := entity.ValidateArticleURL(req.URL.String()); err != nil {
		return fmt.Errorf("redirect target: %w", err)
	}
	if v.config.DenyPrivateIPs {
		if err := checkHost(req.Context(), v.resolver, req.URL.Hostname()); err != nil {
			return err
		}
	}
	return nil
}

// Validate classifies one article link.
//
// It never returns an error: malformed links and dead pages come back invalid with a
// reason, transport failures come back valid with a reason starting with the failure
// kind ("timeout" or "network error"). Exactly one fetch is attempted.
//
// Only the validator's own deadline counts as a timeout. When ctx itself ends first,
// the link is rejected with reason "cancelled": the check never got an answer.
func (v *Validator) Validate(ctx context.Context, rawURL, articleTitle string) entity.ValidationResult {
	start := time.Now()
	vd := v.validate(ctx, rawURL, articleTitle)
	elapsed := time.Since(start)

	outcome := "valid"
	switch {
	case vd.code == codeCancelled:
		outcome = "cancelled"
	case !vd.result.Valid:
		outcome = "invalid"
	case vd.code == codeTimeout || vd.code == codeNetwork:
		outcome = "accepted_on_error"
	}
	metrics.RecordLinkValidation(outcome, vd.code, elapsed)

	v.logger.Debug("link validated",
		slog.String("url", rawURL),
		slog.String("outcome", outcome),
		slog.String("reason", vd.result.Reason),
		slog.String("page_title", vd.result.PageTitle),
		slog.Duration("duration", elapsed))

	return vd.result
}

func (v *Validator) validate(ctx context.Context, rawURL, articleTitle string) verdict {
	if err := entity.ValidateArticleURL(rawURL); err != nil {
		return verdict{entity.Reject(entity.ErrInvalidURL.Error(), ""), codeInvalidURL}
	}
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return verdict{entity.Reject(entity.ErrInvalidURL.Error(), ""), codeInvalidURL}
	}

	reqCtx, cancel := context.WithTimeout(ctx, v.config.Timeout)
	defer cancel()

	if v.config.DenyPrivateIPs {
		if err := checkHost(reqCtx, v.resolver, u.Hostname()); err != nil {
			return v.transportVerdict(ctx, err)
		}
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, u.String(), nil)
	if err != nil {
		return verdict{entity.Reject(entity.ErrInvalidURL.Error(), ""), codeInvalidURL}
	}
	req.Header.Set("User-Agent", v.config.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Accept-Language", v.config.AcceptLanguage)
	req.Header.Set("Range", fmt.Sprintf("bytes=0-%d", v.config.MaxBodyBytes-1))

	resp, err := v.client.Do(req)
	if err != nil {
		return v.transportVerdict(ctx, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if vd, done := classifyStatus(resp.StatusCode); done {
		return vd
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, v.config.MaxBodyBytes))
	if err != nil {
		return v.transportVerdict(ctx, err)
	}

	return classifyTitle(extractTitle(body, v.config.MaxTitleLength), articleTitle)
}

// transportVerdict maps a fetch failure to a verdict. A private redirect target and
// a caller that went away (parent ctx done) are rejections; everything else is
// accepted.
func (v *Validator) transportVerdict(parent context.Context, err error) verdict {
	if parent.Err() != nil {
		return verdict{entity.Reject("cancelled", ""), codeCancelled}
	}
	if errors.Is(err, ErrPrivateAddress) {
		return verdict{entity.Reject("private address", ""), codePrivate}
	}
	if errors.Is(err, entity.ErrInvalidURL) {
		return verdict{entity.Reject(entity.ErrInvalidURL.Error(), ""), codeInvalidURL}
	}
	if isTimeout(err) {
		return verdict{entity.Accept("timeout (accepted)", ""), codeTimeout}
	}
	return verdict{entity.Accept("network error (accepted)", ""), codeNetwork}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
