// Package pathutil maps request paths onto route templates so that metric
// labels stay bounded.
package pathutil

import "strings"

// Known static routes. Anything else collapses to "other".
var staticRoutes = map[string]struct{}{
	"/":                 {},
	"/api/news":         {},
	"/api/categories":   {},
	"/api/cron/refresh": {},
	"/health":           {},
	"/health/live":      {},
	"/health/ready":     {},
	"/metrics":          {},
}

// Other is the label for paths outside the route table.
const Other = "other"

// NormalizePath returns the route template for path.
//
//	NormalizePath("/api/categories/sport")   // "/api/categories/{slug}"
//	NormalizePath("/api/news?category=x")    // "/api/news"
//	NormalizePath("/api/news/")              // "/api/news"
//	NormalizePath("/wp-login.php")           // "other"
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	if _, ok := staticRoutes[path]; ok {
		return path
	}
	if slug, ok := strings.CutPrefix(path, "/api/categories/"); ok && slug != "" && !strings.Contains(slug, "/") {
		return "/api/categories/{slug}"
	}
	return Other
}
