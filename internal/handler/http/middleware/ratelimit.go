package middleware

import (
	"log/slog"
	"net/http"
	"strconv"

	"maroc-actualites/internal/handler/http/respond"
	"maroc-actualites/internal/observability/metrics"
	"maroc-actualites/pkg/ratelimit"
)

// MsgTooManyRequests is the body of a 429 response.
const MsgTooManyRequests = "Trop de requêtes"

// IPRateLimiter limits requests per client IP.
type IPRateLimiter struct {
	limiter   *ratelimit.Limiter
	extractor IPExtractor
	logger    *slog.Logger
}

// NewIPRateLimiter creates the middleware. A nil extractor uses RemoteAddrExtractor.
func NewIPRateLimiter(limiter *ratelimit.Limiter, extractor IPExtractor, logger *slog.Logger) *IPRateLimiter {
	if extractor == nil {
		extractor = RemoteAddrExtractor{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &IPRateLimiter{limiter: limiter, extractor: extractor, logger: logger}
}

// Middleware enforces the limit.
//
// Response headers:
//   - X-RateLimit-Limit: requests per window
//   - X-RateLimit-Remaining: tokens left in the client's bucket
//   - Retry-After: seconds to wait (429 only)
//
// A request whose IP cannot be determined is let through.
func (l *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, err := l.extractor.ExtractIP(r)
		if err != nil {
			l.logger.Warn("rate limit skipped, client ip unknown",
				slog.String("remote_addr", r.RemoteAddr),
				slog.String("error", err.Error()))
			next.ServeHTTP(w, r)
			return
		}

		d := l.limiter.Allow(ip)
		metrics.RecordRateLimitDecision(d.Allowed)

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))

		if !d.Allowed {
			w.Header().Set("Retry-After", strconv.Itoa(d.RetryAfterSeconds()))
			l.logger.Info("rate limit exceeded",
				slog.String("ip", ip),
				slog.String("path", r.URL.Path))
			respond.Error(w, http.StatusTooManyRequests, MsgTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
