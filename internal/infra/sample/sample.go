// Package sample provides the static fallback article set.
//
// The set is compiled into the binary from articles.yaml and served whenever live
// upstream data is unavailable or insufficient. Publication times are stored as ages
// and resolved against the caller's clock so the sample content always looks recent.
package sample

import (
	_ "embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"maroc-actualites/internal/domain/entity"
)

//go:embed articles.yaml
var articlesYAML []byte

type file struct {
	Articles []record `yaml:"articles"`
}

type record struct {
	ID          string `yaml:"id"`
	Category    string `yaml:"category"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Content     string `yaml:"content"`
	URL         string `yaml:"url"`
	Image       string `yaml:"image"`
	Source      string `yaml:"source"`
	Author      string `yaml:"author"`
	Age         string `yaml:"age"`
}

// Set is an immutable collection of sample articles.
type Set struct {
	records []record
	ages    []time.Duration
}

// Load parses the embedded sample file.
func Load() (*Set, error) {
	return Parse(articlesYAML)
}

// MustLoad is like Load but panics on error. The embedded file is covered by tests,
// so a failure here means a broken build.
func MustLoad() *Set {
	s, err := Load()
	if err != nil {
		panic(err)
	}
	return s
}

// Parse builds a Set from YAML data.
// Every record must name a known category, carry a unique id and a parseable age.
func Parse(data []byte) (*Set, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse sample articles: %w", err)
	}

	set := &Set{
		records: make([]record, 0, len(f.Articles)),
		ages:    make([]time.Duration, 0, len(f.Articles)),
	}
	seen := make(map[string]struct{}, len(f.Articles))
	for i, r := range f.Articles {
		if r.ID == "" {
			return nil, fmt.Errorf("sample article %d: missing id", i)
		}
		if _, dup := seen[r.ID]; dup {
			return nil, fmt.Errorf("sample article %s: duplicate id", r.ID)
		}
		seen[r.ID] = struct{}{}

		if !entity.IsValidCategory(r.Category) {
			return nil, fmt.Errorf("sample article %s: %w %q", r.ID, entity.ErrUnknownCategory, r.Category)
		}
		age, err := time.ParseDuration(r.Age)
		if err != nil {
			return nil, fmt.Errorf("sample article %s: invalid age: %w", r.ID, err)
		}

		set.records = append(set.records, r)
		set.ages = append(set.ages, age)
	}
	return set, nil
}

// Len returns the number of sample articles.
func (s *Set) Len() int {
	return len(s.records)
}

// Articles returns every sample article with PublishedAt resolved against now.
func (s *Set) Articles(now time.Time) []entity.Article {
	out := make([]entity.Article, len(s.records))
	for i, r := range s.records {
		out[i] = entity.Article{
			ID:          r.ID,
			Title:       r.Title,
			Description: r.Description,
			Content:     r.Content,
			URL:         r.URL,
			URLToImage:  r.Image,
			PublishedAt: now.Add(-s.ages[i]),
			Source:      entity.Source{Name: r.Source},
			Author:      r.Author,
			Category:    r.Category,
		}
		if out[i].Description == "" {
			out[i].Description = entity.DefaultDescription
		}
	}
	return out
}
