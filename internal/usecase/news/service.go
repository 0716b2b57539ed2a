package news

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"maroc-actualites/internal/domain/entity"
	"maroc-actualites/internal/observability/metrics"
	"maroc-actualites/internal/observability/tracing"
)

// Origin tells where the returned articles come from.
type Origin string

const (
	OriginLive   Origin = "live"
	OriginSample Origin = "sample"
	// OriginNone marks a result that is empty by construction (blank search query).
	OriginNone Origin = "none"
)

// Outcome is the state the pipeline ended in.
type Outcome string

const (
	// OutcomeNoCredential means no upstream credential is configured.
	OutcomeNoCredential Outcome = "no_credential"
	// OutcomeLive means live articles were returned.
	OutcomeLive Outcome = "live"
	// OutcomeUpstreamEmpty means the upstream call succeeded with no usable articles.
	OutcomeUpstreamEmpty Outcome = "upstream_empty"
	// OutcomeUpstreamError means the upstream call failed.
	OutcomeUpstreamError Outcome = "upstream_error"
	// OutcomeInsufficient means too few candidates survived validation.
	OutcomeInsufficient Outcome = "insufficient"
	// OutcomeCancelled means the caller went away during link validation. The
	// result holds sample articles and must not be reused for other callers.
	OutcomeCancelled Outcome = "cancelled"
	// OutcomeBlankQuery means the search query was empty after trimming.
	OutcomeBlankQuery Outcome = "blank_query"
)

const (
	entryCategory = "category"
	entryLatest   = "latest"
	entrySearch   = "search"
)

// Result is what every entry point returns.
type Result struct {
	Articles []entity.Article
	Origin   Origin
	Outcome  Outcome
	// Category is the slug actually served. Empty for latest and search.
	Category string
	// Stats describes the live filter pass, when one ran.
	Stats FilterStats
}

// Service orchestrates upstream search, validation and sample fallback.
// None of its entry points return an error.
type Service struct {
	searcher ArticleSearcher
	filter   *Filter
	samples  SampleSource
	config   Config
	now      func() time.Time
	logger   *slog.Logger
}

// NewService creates a news Service.
//
// Parameters:
//   - searcher: upstream client. Pass a nil interface when no API credential is
//     configured; every entry point then serves the sample set.
//   - validator: link validator used on live candidates
//   - samples: fallback article source
//   - cfg: pipeline thresholds, see DefaultConfig
func NewService(searcher ArticleSearcher, validator LinkValidator, samples SampleSource, cfg Config) *Service {
	return &Service{
		searcher: searcher,
		filter:   NewFilter(validator, cfg.ValidationParallelism),
		samples:  samples,
		config:   cfg,
		now:      time.Now,
		logger:   slog.Default(),
	}
}

// HasCredential reports whether the service queries the upstream API.
func (s *Service) HasCredential() bool {
	return s.searcher != nil
}

// Config returns the thresholds in use.
func (s *Service) Config() Config {
	return s.config
}

// ByCategory returns the articles for a category slug. Unknown slugs are served as
// the default category. A positive hint truncates the final list.
func (s *Service) ByCategory(ctx context.Context, slug string, hint int) Result {
	cat, ok := entity.CategoryBySlug(slug)
	if !ok {
		cat, _ = entity.CategoryBySlug(entity.DefaultCategory)
	}

	ctx, span := tracing.GetTracer().Start(ctx, "news.ByCategory",
		trace.WithAttributes(attribute.String("news.category", cat.Slug)))
	defer span.End()

	start := s.now()
	fallback := func() []entity.Article {
		return s.samplesFor(start, cat.Slug)
	}
	res := s.runValidated(ctx, entryCategory, start, fallback, func(opts SearchOptions) ([]entity.Article, error) {
		return s.searcher.SearchCategory(ctx, cat, opts)
	})
	res.Category = cat.Slug
	return s.finish(span, entryCategory, start, res, hint)
}

// Latest returns the front-page articles.
func (s *Service) Latest(ctx context.Context, hint int) Result {
	ctx, span := tracing.GetTracer().Start(ctx, "news.Latest")
	defer span.End()

	start := s.now()
	fallback := func() []entity.Article {
		return s.samples.Articles(start)
	}
	res := s.runValidated(ctx, entryLatest, start, fallback, func(opts SearchOptions) ([]entity.Article, error) {
		return s.searcher.SearchLatest(ctx, opts)
	})
	return s.finish(span, entryLatest, start, res, hint)
}

// runValidated is the shared state machine of the category and latest paths.
func (s *Service) runValidated(
	ctx context.Context,
	entry string,
	now time.Time,
	fallback func() []entity.Article,
	search func(SearchOptions) ([]entity.Article, error),
) Result {
	sampleResult := func(outcome Outcome, stats FilterStats) Result {
		articles, _ := FilterSample(fallback(), s.config.ResultCap)
		return Result{Articles: articles, Origin: OriginSample, Outcome: outcome, Stats: stats}
	}

	if s.searcher == nil {
		return sampleResult(OutcomeNoCredential, FilterStats{})
	}

	candidates, err := search(SearchOptions{
		PageSize: s.config.upstreamPageSize(),
		From:     now.Add(-s.config.RecencyWindow),
	})
	if err != nil {
		s.logger.Warn("upstream search failed, serving sample articles",
			slog.String("entry", entry),
			slog.Any("error", err))
		return sampleResult(OutcomeUpstreamError, FilterStats{})
	}
	if len(candidates) == 0 {
		return sampleResult(OutcomeUpstreamEmpty, FilterStats{})
	}

	articles, stats, err := s.filter.Live(ctx, candidates, s.config.ResultCap)
	if err != nil {
		s.logger.Warn("link validation aborted, serving sample articles",
			slog.String("entry", entry),
			slog.Any("error", err))
		return sampleResult(OutcomeCancelled, stats)
	}
	if stats.Valid < s.config.MinValidResults {
		s.logger.Info("too few valid articles, serving sample articles",
			slog.String("entry", entry),
			slog.Int("valid", stats.Valid),
			slog.Int("min_valid", s.config.MinValidResults))
		return sampleResult(OutcomeInsufficient, stats)
	}
	return Result{Articles: articles, Origin: OriginLive, Outcome: OutcomeLive, Stats: stats}
}

// Search runs a free-text search. A blank query returns an empty list.
//
// Live search results keep the upstream relevance order and skip link validation
// unless Config.ValidateSearch is set.
func (s *Service) Search(ctx context.Context, query string, hint int) Result {
	query = strings.TrimSpace(query)

	ctx, span := tracing.GetTracer().Start(ctx, "news.Search",
		trace.WithAttributes(attribute.Int("news.query_length", len(query))))
	defer span.End()

	start := s.now()
	if query == "" {
		res := Result{Articles: []entity.Article{}, Origin: OriginNone, Outcome: OutcomeBlankQuery}
		return s.finish(span, entrySearch, start, res, hint)
	}

	sampleResult := func(outcome Outcome) Result {
		articles, _ := FilterSample(matchSamples(s.samples.Articles(start), query), s.config.ResultCap)
		return Result{Articles: articles, Origin: OriginSample, Outcome: outcome}
	}

	if s.searcher == nil {
		return s.finish(span, entrySearch, start, sampleResult(OutcomeNoCredential), hint)
	}

	pageSize := s.config.ResultCap
	if s.config.ValidateSearch {
		pageSize = s.config.upstreamPageSize()
	}
	candidates, err := s.searcher.SearchText(ctx, query, SearchOptions{PageSize: pageSize})
	if err != nil {
		s.logger.Warn("upstream search failed, matching sample articles",
			slog.String("entry", entrySearch),
			slog.Any("error", err))
		return s.finish(span, entrySearch, start, sampleResult(OutcomeUpstreamError), hint)
	}
	if len(candidates) == 0 {
		res := Result{Articles: []entity.Article{}, Origin: OriginLive, Outcome: OutcomeUpstreamEmpty}
		return s.finish(span, entrySearch, start, res, hint)
	}

	res := Result{Origin: OriginLive, Outcome: OutcomeLive}
	if s.config.ValidateSearch {
		articles, stats, err := s.filter.LiveRelevance(ctx, candidates, s.config.ResultCap)
		if err != nil {
			s.logger.Warn("link validation aborted, matching sample articles",
				slog.String("entry", entrySearch),
				slog.Any("error", err))
			return s.finish(span, entrySearch, start, sampleResult(OutcomeCancelled), hint)
		}
		res.Articles, res.Stats = articles, stats
	} else {
		res.Articles = capArticles(candidates, s.config.ResultCap)
		res.Stats = FilterStats{Candidates: len(candidates), Valid: len(candidates)}
	}
	return s.finish(span, entrySearch, start, res, hint)
}

// finish applies the size hint and records the run.
func (s *Service) finish(span trace.Span, entry string, start time.Time, res Result, hint int) Result {
	if hint > 0 {
		res.Articles = capArticles(res.Articles, hint)
	}
	if res.Articles == nil {
		res.Articles = []entity.Article{}
	}

	duration := s.now().Sub(start)
	metrics.RecordPipelineRun(entry, string(res.Outcome), duration)

	span.SetAttributes(
		attribute.String("news.origin", string(res.Origin)),
		attribute.String("news.outcome", string(res.Outcome)),
		attribute.Int("news.returned", len(res.Articles)),
		attribute.Int("news.candidates", res.Stats.Candidates),
	)

	s.logger.Info("news pipeline completed",
		slog.String("entry", entry),
		slog.String("category", res.Category),
		slog.String("origin", string(res.Origin)),
		slog.String("outcome", string(res.Outcome)),
		slog.Int("candidates", res.Stats.Candidates),
		slog.Int("valid", res.Stats.Valid),
		slog.Int("returned", len(res.Articles)),
		slog.Duration("duration", duration))

	return res
}

func (s *Service) samplesFor(now time.Time, slug string) []entity.Article {
	all := s.samples.Articles(now)
	out := make([]entity.Article, 0, len(all))
	for _, a := range all {
		if a.Category == slug {
			out = append(out, a)
		}
	}
	return out
}

// matchSamples keeps articles whose title or description contains query,
// case-insensitively.
func matchSamples(articles []entity.Article, query string) []entity.Article {
	q := strings.ToLower(query)
	out := make([]entity.Article, 0, len(articles))
	for _, a := range articles {
		if strings.Contains(strings.ToLower(a.Title), q) ||
			strings.Contains(strings.ToLower(a.Description), q) {
			out = append(out, a)
		}
	}
	return out
}

func capArticles(articles []entity.Article, limit int) []entity.Article {
	if len(articles) <= limit {
		return articles
	}
	return articles[:limit]
}
