// Package news implements the article pipeline: upstream search, link validation,
// freshness ordering and the fallback to sample content.
//
// Entry points never return errors. Every upstream, network or validation failure
// resolves to a concrete article list, possibly the sample set or an empty list.
package news

import (
	"context"
	"time"

	"maroc-actualites/internal/domain/entity"
)

// SearchOptions constrains one upstream search.
type SearchOptions struct {
	// PageSize is the number of candidates to request.
	PageSize int
	// From is the oldest publication date requested. Zero means no lower bound.
	From time.Time
}

// ArticleSearcher queries the upstream news search API.
// Implementations return mapped articles, already stripped of removed or link-less
// entries. Any transport failure, non-2xx response or malformed body is an error.
type ArticleSearcher interface {
	// SearchCategory queries with the category's search terms, newest first.
	SearchCategory(ctx context.Context, cat entity.Category, opts SearchOptions) ([]entity.Article, error)
	// SearchLatest queries with the national keyword, newest first.
	SearchLatest(ctx context.Context, opts SearchOptions) ([]entity.Article, error)
	// SearchText queries a free-text search, ordered by relevance.
	SearchText(ctx context.Context, query string, opts SearchOptions) ([]entity.Article, error)
}

// LinkValidator decides whether an article link points at a live article page.
type LinkValidator interface {
	Validate(ctx context.Context, url, articleTitle string) entity.ValidationResult
}

// SampleSource provides the static fallback articles, dated relative to now.
type SampleSource interface {
	Articles(now time.Time) []entity.Article
}
