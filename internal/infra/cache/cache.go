// Package cache provides a read-through cache in front of the news pipeline.
//
// Results are stored untruncated and the caller's size hint is applied on read, so
// one entry serves every page size. Results that ended in an upstream error are
// never stored, so the next request retries the upstream.
package cache

import (
	"context"
	"strings"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"maroc-actualites/internal/domain/entity"
	"maroc-actualites/internal/observability/metrics"
	"maroc-actualites/internal/usecase/news"
)

const (
	kindLatest   = "latest"
	kindCategory = "category"
	kindSearch   = "search"

	latestKey = "latest"
)

// Pipeline is the set of news entry points the cache wraps. *news.Service satisfies it.
type Pipeline interface {
	ByCategory(ctx context.Context, slug string, hint int) news.Result
	Latest(ctx context.Context, hint int) news.Result
	Search(ctx context.Context, query string, hint int) news.Result
	Refresh(ctx context.Context) news.RefreshReport
}

// ResultCache wraps a Pipeline with one expiring LRU per result kind.
// It is safe for concurrent use.
type ResultCache struct {
	next     Pipeline
	latest   *expirable.LRU[string, news.Result]
	category *expirable.LRU[string, news.Result]
	search   *expirable.LRU[string, news.Result]
	group    singleflight.Group
}

var _ Pipeline = (*ResultCache)(nil)

// New wraps next with a result cache.
func New(next Pipeline, cfg Config) *ResultCache {
	return &ResultCache{
		next:     next,
		latest:   expirable.NewLRU[string, news.Result](1, nil, cfg.LatestTTL),
		category: expirable.NewLRU[string, news.Result](len(entity.Categories()), nil, cfg.CategoryTTL),
		search:   expirable.NewLRU[string, news.Result](cfg.MaxSearchEntries, nil, cfg.SearchTTL),
	}
}

// ByCategory serves a category result from cache or the pipeline.
// Unknown slugs share the default category entry.
func (c *ResultCache) ByCategory(ctx context.Context, slug string, hint int) news.Result {
	if _, ok := entity.CategoryBySlug(slug); !ok {
		slug = entity.DefaultCategory
	}
	return c.lookup(ctx, c.category, kindCategory, slug, hint, func() news.Result {
		return c.next.ByCategory(ctx, slug, 0)
	})
}

// Latest serves the front-page result from cache or the pipeline.
func (c *ResultCache) Latest(ctx context.Context, hint int) news.Result {
	return c.lookup(ctx, c.latest, kindLatest, latestKey, hint, func() news.Result {
		return c.next.Latest(ctx, 0)
	})
}

// Search serves a search result from cache or the pipeline. Queries differing only
// in case or surrounding space share an entry.
func (c *ResultCache) Search(ctx context.Context, query string, hint int) news.Result {
	key := strings.ToLower(strings.TrimSpace(query))
	if key == "" {
		return c.next.Search(ctx, query, hint)
	}
	return c.lookup(ctx, c.search, kindSearch, key, hint, func() news.Result {
		return c.next.Search(ctx, query, 0)
	})
}

// Refresh runs a full refresh, drops every cached entry and stores the fresh
// category and latest results.
func (c *ResultCache) Refresh(ctx context.Context) news.RefreshReport {
	report := c.next.Refresh(ctx)

	c.Purge()
	for slug, res := range report.Results {
		if cacheable(res) {
			c.category.Add(slug, res)
		}
	}
	if cacheable(report.Latest) {
		c.latest.Add(latestKey, report.Latest)
	}
	return report
}

// Purge drops every cached entry.
func (c *ResultCache) Purge() {
	c.latest.Purge()
	c.category.Purge()
	c.search.Purge()
}

// Len returns the number of cached entries across kinds.
func (c *ResultCache) Len() int {
	return c.latest.Len() + c.category.Len() + c.search.Len()
}

// lookup serves key from lru or loads it once for all concurrent callers. A result
// loaded under a context that ended is never stored. A caller that joined a load
// whose leader went away loads again under its own context.
func (c *ResultCache) lookup(
	ctx context.Context,
	lru *expirable.LRU[string, news.Result],
	kind, key string,
	hint int,
	load func() news.Result,
) news.Result {
	if res, ok := lru.Get(key); ok {
		metrics.RecordCacheLookup(kind, true)
		return truncate(res, hint)
	}
	metrics.RecordCacheLookup(kind, false)

	store := func() news.Result {
		res := load()
		if cacheable(res) && ctx.Err() == nil {
			lru.Add(key, res)
		}
		return res
	}

	v, _, shared := c.group.Do(kind+":"+key, func() (interface{}, error) {
		return store(), nil
	})
	res := v.(news.Result)
	if shared && res.Outcome == news.OutcomeCancelled && ctx.Err() == nil {
		res = store()
	}
	return truncate(res, hint)
}

func cacheable(res news.Result) bool {
	return res.Outcome != news.OutcomeUpstreamError && res.Outcome != news.OutcomeCancelled
}

func truncate(res news.Result, hint int) news.Result {
	if hint > 0 && len(res.Articles) > hint {
		res.Articles = res.Articles[:hint:hint]
	}
	return res
}
