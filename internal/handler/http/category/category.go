// Package category serves the fixed category catalogue.
package category

import (
	"net/http"

	"maroc-actualites/internal/domain/entity"
	"maroc-actualites/internal/handler/http/respond"
)

// MsgNotFound is returned for an unknown slug.
const MsgNotFound = "Catégorie introuvable"

// DTO is the JSON shape of a category.
type DTO struct {
	Slug    string `json:"slug"`
	Label   string `json:"label"`
	LabelAr string `json:"label_ar"`
	Icon    string `json:"icon"`
	Color   string `json:"color"`
}

func toDTO(c entity.Category) DTO {
	return DTO{Slug: c.Slug, Label: c.Label, LabelAr: c.LabelAr, Icon: c.Icon, Color: c.Color}
}

// ListHandler serves GET /api/categories.
type ListHandler struct{}

func (ListHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	cats := entity.Categories()
	out := make([]DTO, 0, len(cats))
	for _, c := range cats {
		out = append(out, toDTO(c))
	}
	respond.JSON(w, http.StatusOK, out)
}

// GetHandler serves GET /api/categories/{slug}.
type GetHandler struct{}

func (GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c, ok := entity.CategoryBySlug(r.PathValue("slug"))
	if !ok {
		respond.Error(w, http.StatusNotFound, MsgNotFound)
		return
	}
	respond.JSON(w, http.StatusOK, toDTO(c))
}

// Register mounts the category routes on mux.
func Register(mux *http.ServeMux) {
	mux.Handle("GET /api/categories", ListHandler{})
	mux.Handle("GET /api/categories/{slug}", GetHandler{})
}
