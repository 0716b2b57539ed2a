// Package refresh serves the cron-triggered refresh endpoint.
//
// A refresh re-runs every category pipeline plus the latest pipeline, drops the
// result cache and stores the fresh results. When a secret is configured the
// caller must present it either as "Authorization: Bearer <secret>" or in the
// X-Cron-Secret header.
package refresh

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"maroc-actualites/internal/handler/http/respond"
	"maroc-actualites/internal/observability/logging"
	newsUC "maroc-actualites/internal/usecase/news"
)

// SecretHeader is the alternative to a bearer token.
const SecretHeader = "X-Cron-Secret"

// MsgUnauthorized is returned when the secret is missing or wrong.
const MsgUnauthorized = "Non autorisé"

// Refresher runs a full refresh. *newsUC.Service and the result cache satisfy it.
type Refresher interface {
	Refresh(ctx context.Context) newsUC.RefreshReport
}

// CategoryDTO summarises one category in the refresh response.
type CategoryDTO struct {
	Slug     string `json:"slug"`
	Origin   string `json:"origin"`
	Outcome  string `json:"outcome"`
	Fetched  int    `json:"fetched"`
	Valid    int    `json:"valid"`
	Rejected int    `json:"rejected"`
	Returned int    `json:"returned"`
}

// Response is the body of a successful refresh.
type Response struct {
	Status      string        `json:"status"`
	RefreshedAt time.Time     `json:"refreshed_at"`
	DurationMs  int64         `json:"duration_ms"`
	Message     string        `json:"message"`
	LiveCount   int           `json:"live_count"`
	Categories  []CategoryDTO `json:"categories"`
}

// Handler serves GET and POST /api/cron/refresh.
type Handler struct {
	Refresher Refresher
	// Secret is the shared refresh secret. Empty leaves the endpoint open.
	Secret string
}

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if !Authorized(r, h.Secret) {
		logger.Warn("refresh rejected: bad secret", slog.String("remote_addr", r.RemoteAddr))
		respond.Error(w, http.StatusUnauthorized, MsgUnauthorized)
		return
	}

	report := h.Refresher.Refresh(ctx)

	cats := make([]CategoryDTO, 0, len(report.Categories))
	for _, c := range report.Categories {
		cats = append(cats, CategoryDTO{
			Slug:     c.Slug,
			Origin:   string(c.Origin),
			Outcome:  string(c.Outcome),
			Fetched:  c.Fetched,
			Valid:    c.Valid,
			Rejected: c.Rejected,
			Returned: c.Returned,
		})
	}
	live := report.LiveCount()

	logger.Info("refresh completed",
		slog.Int("live_categories", live),
		slog.Int("categories", len(cats)),
		slog.Duration("duration", report.Duration))

	respond.JSON(w, http.StatusOK, Response{
		Status:      "ok",
		RefreshedAt: report.StartedAt.UTC(),
		DurationMs:  report.Duration.Milliseconds(),
		Message:     fmt.Sprintf("Cache rafraîchi : %d/%d catégories en direct", live, len(cats)),
		LiveCount:   live,
		Categories:  cats,
	})
}

// Authorized reports whether r carries secret. An empty secret authorises every request.
func Authorized(r *http.Request, secret string) bool {
	if secret == "" {
		return true
	}
	if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok && equal(token, secret) {
		return true
	}
	if v := r.Header.Get(SecretHeader); v != "" && equal(v, secret) {
		return true
	}
	return false
}

func equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// Register mounts the refresh route on mux.
func Register(mux *http.ServeMux, refresher Refresher, secret string) {
	h := Handler{Refresher: refresher, Secret: secret}
	mux.Handle("GET /api/cron/refresh", h)
	mux.Handle("POST /api/cron/refresh", h)
}
