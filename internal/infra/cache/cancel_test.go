package cache_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maroc-actualites/internal/domain/entity"
	"maroc-actualites/internal/infra/cache"
	"maroc-actualites/internal/infra/linkcheck"
	"maroc-actualites/internal/infra/sample"
	"maroc-actualites/internal/usecase/news"
)

// fixedSearcher returns the same candidates for every query.
type fixedSearcher struct {
	articles []entity.Article
}

func (s fixedSearcher) SearchCategory(context.Context, entity.Category, news.SearchOptions) ([]entity.Article, error) {
	return s.articles, nil
}

func (s fixedSearcher) SearchLatest(context.Context, news.SearchOptions) ([]entity.Article, error) {
	return s.articles, nil
}

func (s fixedSearcher) SearchText(context.Context, string, news.SearchOptions) ([]entity.Article, error) {
	return s.articles, nil
}

// leaderCancelPipeline blocks the first Latest call on gate and reports it as
// cancelled when its context has ended by then.
type leaderCancelPipeline struct {
	gate  chan struct{}
	calls atomic.Int32
}

func (p *leaderCancelPipeline) Latest(ctx context.Context, _ int) news.Result {
	if p.calls.Add(1) == 1 {
		<-p.gate
	}
	if ctx.Err() != nil {
		return news.Result{Origin: news.OriginSample, Outcome: news.OutcomeCancelled}
	}
	return news.Result{
		Articles: []entity.Article{{ID: "live-0"}},
		Origin:   news.OriginLive,
		Outcome:  news.OutcomeLive,
	}
}

func (p *leaderCancelPipeline) ByCategory(ctx context.Context, _ string, hint int) news.Result {
	return p.Latest(ctx, hint)
}

func (p *leaderCancelPipeline) Search(ctx context.Context, _ string, hint int) news.Result {
	return p.Latest(ctx, hint)
}

func (p *leaderCancelPipeline) Refresh(context.Context) news.RefreshReport {
	return news.RefreshReport{}
}

// slowDeadLinks serves 404 for every path after delay.
func slowDeadLinks(t *testing.T, delay time.Duration) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(delay):
			w.WriteHeader(http.StatusNotFound)
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

// ────────────────────────────────────────────────────────────
// Caller cancellation
// ────────────────────────────────────────────────────────────

func TestResultCache_CancelledCallerDoesNotCacheDeadLinks(t *testing.T) {
	srv := slowDeadLinks(t, 200*time.Millisecond)

	candidates := make([]entity.Article, 30)
	for i := range candidates {
		candidates[i] = entity.Article{
			ID:          fmt.Sprintf("api-economie-%d", i),
			Title:       fmt.Sprintf("Article économique numéro %d", i),
			URL:         fmt.Sprintf("%s/dead/%d", srv.URL, i),
			PublishedAt: time.Now().Add(-time.Duration(i) * time.Minute),
			Category:    "economie",
		}
	}

	lcfg := linkcheck.DefaultConfig()
	lcfg.DenyPrivateIPs = false
	svc := news.NewService(fixedSearcher{articles: candidates}, linkcheck.New(lcfg), sample.MustLoad(), news.DefaultConfig())
	c := cache.New(svc, cache.DefaultConfig())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	cancelled := c.ByCategory(ctx, "economie", 0)

	assert.Equal(t, news.OriginSample, cancelled.Origin)
	assert.Equal(t, news.OutcomeCancelled, cancelled.Outcome)
	assert.Zero(t, c.Len())

	next := c.ByCategory(context.Background(), "economie", 0)

	assert.Equal(t, news.OriginSample, next.Origin)
	assert.Equal(t, news.OutcomeInsufficient, next.Outcome)
	for _, a := range next.Articles {
		assert.False(t, strings.HasPrefix(a.URL, srv.URL), "dead link served: %s", a.URL)
	}
}

func TestResultCache_CancelledOutcomeNotCached(t *testing.T) {
	p := &countingPipeline{n: 2, outcome: news.OutcomeCancelled}
	c := newCache(p)

	c.Latest(context.Background(), 0)
	c.Latest(context.Background(), 0)

	assert.Equal(t, int32(2), p.latest.Load())
	assert.Zero(t, c.Len())
}

func TestResultCache_LoadUnderEndedContextNotCached(t *testing.T) {
	p := &countingPipeline{n: 3}
	c := newCache(p)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := c.ByCategory(ctx, "sport", 0)
	require.Len(t, res.Articles, 3)
	assert.Zero(t, c.Len())

	c.ByCategory(context.Background(), "sport", 0)
	c.ByCategory(context.Background(), "sport", 0)

	assert.Equal(t, int32(2), p.category.Load())
	assert.Equal(t, 1, c.Len())
}

func TestResultCache_JoinedCallerReloadsAfterLeaderCancelled(t *testing.T) {
	p := &leaderCancelPipeline{gate: make(chan struct{})}
	c := cache.New(p, cache.DefaultConfig())

	leaderCtx, cancelLeader := context.WithCancel(context.Background())
	leaderDone := make(chan news.Result, 1)
	go func() { leaderDone <- c.Latest(leaderCtx, 0) }()

	require.Eventually(t, func() bool { return p.calls.Load() == 1 }, time.Second, time.Millisecond)

	followerDone := make(chan news.Result, 1)
	go func() { followerDone <- c.Latest(context.Background(), 0) }()
	// Give the follower time to join the in-flight load.
	time.Sleep(20 * time.Millisecond)

	cancelLeader()
	close(p.gate)

	assert.Equal(t, news.OutcomeCancelled, (<-leaderDone).Outcome)
	follower := <-followerDone
	assert.Equal(t, news.OutcomeLive, follower.Outcome)
	assert.Equal(t, int32(2), p.calls.Load())
	assert.Equal(t, 1, c.Len())
}
