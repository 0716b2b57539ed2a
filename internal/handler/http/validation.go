package http

import (
	"net/http"

	"maroc-actualites/internal/handler/http/respond"
)

const (
	maxAuthorizationBytes = 1024
	maxPathBytes          = 2048
	maxQueryBytes         = 2048
)

// InputValidation rejects oversized headers, paths and query strings and caps the
// request body at maxBodyBytes.
func InputValidation(maxBodyBytes int64) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(r.Header.Get("Authorization")) > maxAuthorizationBytes {
				respond.Error(w, http.StatusRequestHeaderFieldsTooLarge, "En-tête Authorization trop long")
				return
			}
			if len(r.URL.Path) > maxPathBytes || len(r.URL.RawQuery) > maxQueryBytes {
				respond.Error(w, http.StatusRequestURITooLong, "URL trop longue")
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
			next.ServeHTTP(w, r)
		})
	}
}
