package ratelimit

import (
	"fmt"
	"time"
)

// Decision represents the result of a rate limit check.
type Decision struct {
	// Key is the identifier used for rate limiting (e.g., client IP).
	Key string

	// Allowed indicates whether the request should be permitted.
	Allowed bool

	// Limit is the configured number of requests per window.
	Limit int

	// Remaining is the number of whole tokens left in the key's bucket.
	Remaining int

	// RetryAfter is how long a denied client should wait before retrying.
	// Zero when the request is allowed.
	RetryAfter time.Duration
}

// String returns a human-readable representation of the decision.
func (d Decision) String() string {
	if d.Allowed {
		return fmt.Sprintf("Decision{Allowed: true, Key: %s, Remaining: %d/%d}", d.Key, d.Remaining, d.Limit)
	}
	return fmt.Sprintf("Decision{Allowed: false, Key: %s, Limit: %d, RetryAfter: %s}", d.Key, d.Limit, d.RetryAfter)
}

// RetryAfterSeconds rounds RetryAfter up to whole seconds, with a minimum of 1,
// for use in a Retry-After header.
func (d Decision) RetryAfterSeconds() int {
	secs := int((d.RetryAfter + time.Second - 1) / time.Second)
	if secs < 1 {
		return 1
	}
	return secs
}
