package news

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"maroc-actualites/internal/domain/entity"
	"maroc-actualites/internal/observability/metrics"
)

// ErrValidationAborted is returned when the caller's context ends before every
// validation settled. Verdicts from such a pass are not trustworthy: fetches cut
// short by the caller look like accepted transport failures.
var ErrValidationAborted = errors.New("link validation aborted")

// FilterStats summarises one filter pass.
type FilterStats struct {
	Candidates int
	Valid      int
	Rejected   int
}

// Filter runs the link validator over a batch of candidates.
type Filter struct {
	validator   LinkValidator
	parallelism int
	logger      *slog.Logger
}

// NewFilter creates a Filter. A parallelism below 1 means one validation at a time.
func NewFilter(validator LinkValidator, parallelism int) *Filter {
	if parallelism < 1 {
		parallelism = 1
	}
	return &Filter{
		validator:   validator,
		parallelism: parallelism,
		logger:      slog.Default(),
	}
}

type survivor struct {
	index   int
	article entity.Article
}

// Live validates every candidate concurrently and returns the survivors, newest first,
// capped to limit. It waits for every validation to settle. A validation that panics
// rejects its own article only.
//
// Stats.Valid counts all survivors before the cap is applied, so callers can compare
// it against a minimum threshold. When ctx ends before the pass completes, Live
// returns no articles and an error wrapping ErrValidationAborted.
func (f *Filter) Live(ctx context.Context, articles []entity.Article, limit int) ([]entity.Article, FilterStats, error) {
	kept, stats, err := f.validateAll(ctx, articles)
	if err != nil {
		return nil, stats, err
	}
	return newestFirst(kept, limit), stats, nil
}

// LiveRelevance is like Live but keeps the input order, for relevance-ranked
// search results.
func (f *Filter) LiveRelevance(ctx context.Context, articles []entity.Article, limit int) ([]entity.Article, FilterStats, error) {
	kept, stats, err := f.validateAll(ctx, articles)
	if err != nil {
		return nil, stats, err
	}
	slices.SortFunc(kept, func(a, b survivor) int {
		return cmp.Compare(a.index, b.index)
	})
	return collect(kept, limit), stats, nil
}

func (f *Filter) validateAll(ctx context.Context, articles []entity.Article) ([]survivor, FilterStats, error) {
	stats := FilterStats{Candidates: len(articles)}
	if len(articles) == 0 {
		return nil, stats, nil
	}

	var (
		mu   sync.Mutex
		kept = make([]survivor, 0, len(articles))
	)

	var eg errgroup.Group
	eg.SetLimit(f.parallelism)

	for i, art := range articles {
		if ctx.Err() != nil {
			break
		}
		eg.Go(func() error {
			res, err := f.validateOne(ctx, art)
			if err != nil {
				f.logger.Warn("link validation aborted",
					slog.String("url", art.URL),
					slog.Any("error", err))
				return nil
			}
			if !res.Valid {
				f.logger.Debug("article rejected",
					slog.String("url", art.URL),
					slog.String("reason", res.Reason))
				return nil
			}
			mu.Lock()
			kept = append(kept, survivor{index: i, article: art})
			mu.Unlock()
			return nil
		})
	}
	_ = eg.Wait() // goroutines never return an error

	if err := ctx.Err(); err != nil {
		return nil, stats, fmt.Errorf("%w: %w", ErrValidationAborted, err)
	}

	stats.Valid = len(kept)
	stats.Rejected = stats.Candidates - stats.Valid
	metrics.RecordFilterDecisions(stats.Valid, stats.Rejected)

	return kept, stats, nil
}

func (f *Filter) validateOne(ctx context.Context, art entity.Article) (res entity.ValidationResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("validator panic: %v", r)
		}
	}()
	return f.validator.Validate(ctx, art.URL, art.Title), nil
}

// FilterSample applies the format-only URL check to sample articles, without any
// network call, and returns them newest first, capped to limit.
func FilterSample(articles []entity.Article, limit int) ([]entity.Article, FilterStats) {
	stats := FilterStats{Candidates: len(articles)}
	kept := make([]survivor, 0, len(articles))
	for i, art := range articles {
		if err := entity.ValidateArticleURL(art.URL); err != nil {
			continue
		}
		kept = append(kept, survivor{index: i, article: art})
	}
	stats.Valid = len(kept)
	stats.Rejected = stats.Candidates - stats.Valid
	return newestFirst(kept, limit), stats
}

// newestFirst sorts by publication time descending. Equal times keep input order.
func newestFirst(kept []survivor, limit int) []entity.Article {
	slices.SortFunc(kept, func(a, b survivor) int {
		if c := b.article.PublishedAt.Compare(a.article.PublishedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.index, b.index)
	})
	return collect(kept, limit)
}

func collect(kept []survivor, limit int) []entity.Article {
	if limit >= 0 && len(kept) > limit {
		kept = kept[:limit]
	}
	out := make([]entity.Article, len(kept))
	for i, s := range kept {
		out[i] = s.article
	}
	return out
}
