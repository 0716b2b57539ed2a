package newsapi

import (
	"fmt"
	"strings"
	"time"

	"maroc-actualites/internal/domain/entity"
)

// removedTitle is what the upstream puts in place of articles taken down by the publisher.
const removedTitle = "[Removed]"

// removedURL is the placeholder link attached to removed articles.
const removedURL = "https://removed.com"

type searchResponse struct {
	Status       string       `json:"status"`
	TotalResults int          `json:"totalResults"`
	Articles     []apiArticle `json:"articles"`

	// Set when status is "error".
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiArticle struct {
	Source      apiSource `json:"source"`
	Author      string    `json:"author"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	URLToImage  string    `json:"urlToImage"`
	PublishedAt string    `json:"publishedAt"`
	Content     string    `json:"content"`
}

type apiSource struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (a apiArticle) removed() bool {
	title := strings.TrimSpace(a.Title)
	link := strings.TrimSpace(a.URL)
	return title == "" || title == removedTitle || link == "" || link == removedURL
}

// mapArticles drops removed or link-less entries and converts the rest.
// Ids are "api-<category>-<index>-<fetch millis>", unique within one call.
func mapArticles(items []apiArticle, category string, fetchedAt time.Time) []entity.Article {
	out := make([]entity.Article, 0, len(items))
	stamp := fetchedAt.UnixMilli()
	for _, item := range items {
		if item.removed() {
			continue
		}
		out = append(out, toEntity(item, category, fmt.Sprintf("api-%s-%d-%d", category, len(out), stamp)))
	}
	return out
}

func toEntity(item apiArticle, category, id string) entity.Article {
	description := strings.TrimSpace(item.Description)
	if description == "" {
		description = entity.DefaultDescription
	}
	return entity.Article{
		ID:          id,
		Title:       strings.TrimSpace(item.Title),
		Description: description,
		Content:     item.Content,
		URL:         strings.TrimSpace(item.URL),
		URLToImage:  strings.TrimSpace(item.URLToImage),
		PublishedAt: parsePublishedAt(item.PublishedAt),
		Source: entity.Source{
			ID:   item.Source.ID,
			Name: item.Source.Name,
		},
		Author:   item.Author,
		Category: category,
	}
}

// parsePublishedAt accepts RFC 3339 with or without fractional seconds.
// Anything else yields the zero time, which sorts last.
func parsePublishedAt(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}
	}
	return t
}
