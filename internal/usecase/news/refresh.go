package news

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"maroc-actualites/internal/domain/entity"
	"maroc-actualites/internal/observability/slo"
	"maroc-actualites/internal/observability/tracing"
)

// CategoryReport summarises the refresh of one category.
type CategoryReport struct {
	Slug     string
	Origin   Origin
	Outcome  Outcome
	Fetched  int
	Valid    int
	Rejected int
	Returned int
}

// RefreshReport is the result of a full refresh run.
type RefreshReport struct {
	StartedAt  time.Time
	Duration   time.Duration
	Categories []CategoryReport
	Latest     Result
	// Results holds the full result per category slug, for cache pre-warming.
	Results map[string]Result
}

// LiveCount returns how many categories were served from live data.
func (r RefreshReport) LiveCount() int {
	n := 0
	for _, c := range r.Categories {
		if c.Origin == OriginLive {
			n++
		}
	}
	return n
}

// Refresh runs the category pipeline for every category plus the latest pipeline.
// Categories run RefreshParallelism at a time. The report lists categories in
// catalogue order.
func (s *Service) Refresh(ctx context.Context) RefreshReport {
	ctx, span := tracing.GetTracer().Start(ctx, "news.Refresh")
	defer span.End()

	started := s.now()
	cats := entity.Categories()

	var (
		mu      sync.Mutex
		results = make(map[string]Result, len(cats))
	)

	var eg errgroup.Group
	eg.SetLimit(s.config.RefreshParallelism)
	for _, cat := range cats {
		eg.Go(func() error {
			res := s.ByCategory(ctx, cat.Slug, 0)
			mu.Lock()
			results[cat.Slug] = res
			mu.Unlock()
			return nil
		})
	}
	_ = eg.Wait()

	latest := s.Latest(ctx, 0)

	report := RefreshReport{
		StartedAt:  started,
		Categories: make([]CategoryReport, 0, len(cats)),
		Latest:     latest,
		Results:    results,
	}
	for _, cat := range cats {
		res := results[cat.Slug]
		report.Categories = append(report.Categories, CategoryReport{
			Slug:     cat.Slug,
			Origin:   res.Origin,
			Outcome:  res.Outcome,
			Fetched:  res.Stats.Candidates,
			Valid:    res.Stats.Valid,
			Rejected: res.Stats.Rejected,
			Returned: len(res.Articles),
		})
	}
	report.Duration = s.now().Sub(started)

	fetched, valid := 0, 0
	for _, c := range report.Categories {
		fetched += c.Fetched
		valid += c.Valid
	}
	slo.ObserveRefresh(report.LiveCount(), len(report.Categories), valid, fetched)
	if !slo.MeetsLiveCoverage(report.LiveCount(), len(report.Categories)) {
		s.logger.Warn("live coverage below objective",
			slog.Int("live", report.LiveCount()),
			slog.Int("categories", len(report.Categories)),
			slog.Float64("objective", slo.LiveCoverageSLO))
	}

	s.logger.Info("news refresh completed",
		slog.Int("categories", len(report.Categories)),
		slog.Int("live", report.LiveCount()),
		slog.Duration("duration", report.Duration))

	return report
}
