// Package entity defines the core domain entities and validation logic for the application.
// It contains the fundamental business objects such as Article and Category, the
// per-article ValidationResult, and the French display helpers used when articles are
// rendered.
package entity

import "time"

// NoLinkURL is the placeholder URL carried by articles without a real destination.
// Articles with this URL never pass validation.
const NoLinkURL = "#"

// FallbackImageURL is substituted by renderers when an article has no image.
const FallbackImageURL = "https://images.unsplash.com/photo-1539020140153-e479b8c22e70?w=800&q=80"

// DefaultDescription replaces an empty upstream description.
const DefaultDescription = "Pas de description disponible."

// Source identifies the publisher of an article.
type Source struct {
	ID   string
	Name string
}

// Article represents a news article candidate or a displayable article.
// Articles are values: they are built once per pipeline run and never mutated afterwards.
type Article struct {
	ID          string
	Title       string
	Description string
	Content     string
	URL         string
	URLToImage  string
	PublishedAt time.Time
	Source      Source
	Author      string
	Category    string
}

// ImageURL returns the article image, or FallbackImageURL when it has none.
func (a Article) ImageURL() string {
	if a.URLToImage == "" {
		return FallbackImageURL
	}
	return a.URLToImage
}

// HasLink reports whether the article carries a real destination URL.
func (a Article) HasLink() bool {
	return a.URL != "" && a.URL != NoLinkURL
}

// ValidationResult is the outcome of checking one article link.
// PageTitle holds the title extracted from the remote page, when one was fetched.
type ValidationResult struct {
	Valid     bool
	Reason    string
	PageTitle string
}

// Accept builds a valid result.
func Accept(reason, pageTitle string) ValidationResult {
	return ValidationResult{Valid: true, Reason: reason, PageTitle: pageTitle}
}

// Reject builds an invalid result with the given reason.
func Reject(reason, pageTitle string) ValidationResult {
	return ValidationResult{Valid: false, Reason: reason, PageTitle: pageTitle}
}
