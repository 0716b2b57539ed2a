package news_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"maroc-actualites/internal/domain/entity"
	"maroc-actualites/internal/usecase/news"
)

/* ───────── stubs ───────── */

// stubSearcher returns canned articles and records the options it was called with.
type stubSearcher struct {
	mu       sync.Mutex
	articles []entity.Article
	err      error
	calls    []stubCall
}

type stubCall struct {
	kind     string
	category string
	query    string
	opts     news.SearchOptions
}

func (s *stubSearcher) record(c stubCall) ([]entity.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, c)
	if s.err != nil {
		return nil, s.err
	}
	out := make([]entity.Article, len(s.articles))
	copy(out, s.articles)
	return out, nil
}

func (s *stubSearcher) SearchCategory(_ context.Context, cat entity.Category, opts news.SearchOptions) ([]entity.Article, error) {
	return s.record(stubCall{kind: "category", category: cat.Slug, opts: opts})
}

func (s *stubSearcher) SearchLatest(_ context.Context, opts news.SearchOptions) ([]entity.Article, error) {
	return s.record(stubCall{kind: "latest", opts: opts})
}

func (s *stubSearcher) SearchText(_ context.Context, query string, opts news.SearchOptions) ([]entity.Article, error) {
	return s.record(stubCall{kind: "search", query: query, opts: opts})
}

func (s *stubSearcher) lastCall() stubCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[len(s.calls)-1]
}

// stubValidator rejects URLs containing "/dead/" and panics on URLs containing "/panic/".
type stubValidator struct {
	calls atomic.Int32
	delay func(url string) time.Duration
}

func (v *stubValidator) Validate(ctx context.Context, url, _ string) entity.ValidationResult {
	v.calls.Add(1)
	if v.delay != nil {
		select {
		case <-time.After(v.delay(url)):
		case <-ctx.Done():
		}
	}
	switch {
	case strings.Contains(url, "/panic/"):
		panic("boom")
	case strings.Contains(url, "/dead/"):
		return entity.ValidationResult{Valid: false, Reason: "HTTP 404"}
	default:
		return entity.ValidationResult{Valid: true}
	}
}

// stubSamples serves a fixed list, dated relative to now.
type stubSamples struct {
	ages []sampleSpec
}

type sampleSpec struct {
	id       string
	category string
	title    string
	url      string
	age      time.Duration
}

func (s stubSamples) Articles(now time.Time) []entity.Article {
	out := make([]entity.Article, 0, len(s.ages))
	for _, a := range s.ages {
		out = append(out, entity.Article{
			ID:          a.id,
			Title:       a.title,
			Description: "Description de " + a.title,
			URL:         a.url,
			PublishedAt: now.Add(-a.age),
			Category:    a.category,
		})
	}
	return out
}

/* ───────── fixtures ───────── */

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// candidates builds n live articles, the i-th published i minutes before baseTime.
// Indexes listed in dead get a URL the stub validator rejects.
func candidates(n int, dead ...int) []entity.Article {
	isDead := make(map[int]bool, len(dead))
	for _, d := range dead {
		isDead[d] = true
	}
	out := make([]entity.Article, n)
	for i := range out {
		path := "ok"
		if isDead[i] {
			path = "dead"
		}
		out[i] = entity.Article{
			ID:          fmt.Sprintf("api-test-%d", i),
			Title:       fmt.Sprintf("Article numéro %d", i),
			URL:         fmt.Sprintf("https://example.ma/%s/%d", path, i),
			PublishedAt: baseTime.Add(-time.Duration(i) * time.Minute),
			Category:    "economie",
		}
	}
	return out
}

func rangeInts(from, to int) []int {
	out := make([]int, 0, to-from)
	for i := from; i < to; i++ {
		out = append(out, i)
	}
	return out
}

func defaultSamples() stubSamples {
	return stubSamples{ages: []sampleSpec{
		{id: "s-eco-1", category: "economie", title: "Bourse de Casablanca en hausse", url: "https://www.medias24.com/bourse", age: 2 * time.Hour},
		{id: "s-eco-2", category: "economie", title: "Le dirham reste stable", url: "https://www.leseco.ma/dirham", age: 1 * time.Hour},
		{id: "s-eco-bad", category: "economie", title: "Lien manquant", url: entity.NoLinkURL, age: 30 * time.Minute},
		{id: "s-gen-1", category: "general", title: "Conseil de gouvernement", url: "https://www.mapexpress.ma/conseil", age: 3 * time.Hour},
		{id: "s-sport-1", category: "sport", title: "Les Lions de l'Atlas qualifiés", url: "https://www.le360.ma/sport/lions", age: 4 * time.Hour},
	}}
}

func urls(articles []entity.Article) []string {
	out := make([]string, len(articles))
	for i, a := range articles {
		out[i] = a.URL
	}
	return out
}

func ids(articles []entity.Article) []string {
	out := make([]string, len(articles))
	for i, a := range articles {
		out[i] = a.ID
	}
	return out
}
