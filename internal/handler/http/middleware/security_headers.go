package middleware

import (
	"net/http"

	"maroc-actualites/pkg/security/csp"
)

// SecurityHeaders sets the content security policy and the usual hardening
// headers on every response.
func SecurityHeaders(policy *csp.Builder) func(http.Handler) http.Handler {
	name, value := policy.HeaderName(), policy.Build()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			if value != "" {
				h.Set(name, value)
			}
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "no-referrer")
			next.ServeHTTP(w, r)
		})
	}
}
