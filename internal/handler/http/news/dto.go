// Package news provides the HTTP handler for GET /api/news.
package news

import (
	"time"

	"maroc-actualites/internal/domain/entity"
	newsUC "maroc-actualites/internal/usecase/news"
)

// SourceDTO identifies the publisher of an article.
type SourceDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ArticleDTO is the JSON shape of one article.
type ArticleDTO struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Content        string    `json:"content,omitempty"`
	URL            string    `json:"url"`
	ImageURL       string    `json:"image_url"`
	PublishedAt    time.Time `json:"published_at"`
	TimeAgo        string    `json:"time_ago"`
	PublishedLabel string    `json:"published_label"`
	Source         SourceDTO `json:"source"`
	Author         string    `json:"author,omitempty"`
	Category       string    `json:"category"`
}

// Response is the body of GET /api/news.
type Response struct {
	Articles []ArticleDTO `json:"articles"`
	Origin   string       `json:"origin"`
	Outcome  string       `json:"outcome"`
	Count    int          `json:"count"`
	Category string       `json:"category,omitempty"`
}

// ToDTO renders an article for display at now.
func ToDTO(a entity.Article, now time.Time) ArticleDTO {
	description := a.Description
	if description == "" {
		description = entity.DefaultDescription
	}
	return ArticleDTO{
		ID:             a.ID,
		Title:          a.Title,
		Description:    description,
		Content:        a.Content,
		URL:            a.URL,
		ImageURL:       a.ImageURL(),
		PublishedAt:    a.PublishedAt,
		TimeAgo:        entity.TimeAgo(a.PublishedAt, now),
		PublishedLabel: entity.FormatDate(a.PublishedAt, nil),
		Source:         SourceDTO{ID: a.Source.ID, Name: a.Source.Name},
		Author:         a.Author,
		Category:       a.Category,
	}
}

// NewResponse renders a pipeline result.
func NewResponse(res newsUC.Result, now time.Time) Response {
	dtos := make([]ArticleDTO, 0, len(res.Articles))
	for _, a := range res.Articles {
		dtos = append(dtos, ToDTO(a, now))
	}
	return Response{
		Articles: dtos,
		Origin:   string(res.Origin),
		Outcome:  string(res.Outcome),
		Count:    len(dtos),
		Category: res.Category,
	}
}
