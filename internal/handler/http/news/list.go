package news

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"maroc-actualites/internal/domain/entity"
	"maroc-actualites/internal/handler/http/respond"
	"maroc-actualites/internal/observability/logging"
	newsUC "maroc-actualites/internal/usecase/news"
)

const (
	// DefaultPageSize is used when pageSize is absent.
	DefaultPageSize = 10
	// MaxPageSize is the largest accepted pageSize.
	MaxPageSize = 10

	MsgInvalidCategory = "Catégorie invalide"
	MsgInvalidPageSize = "Paramètre pageSize invalide"
)

// Pipeline is the read side of the news pipeline. Both *newsUC.Service and the
// result cache satisfy it.
type Pipeline interface {
	ByCategory(ctx context.Context, slug string, hint int) newsUC.Result
	Latest(ctx context.Context, hint int) newsUC.Result
	Search(ctx context.Context, query string, hint int) newsUC.Result
}

// ListHandler serves GET /api/news.
type ListHandler struct {
	Pipeline Pipeline
	Now      func() time.Time
}

// ServeHTTP returns a list of articles.
//
// Query parameters, in priority order:
//   - q: free-text search
//   - category: a catalogue slug; unknown slugs are rejected with 400
//   - neither: the latest articles
//
// pageSize must be between 1 and MaxPageSize.
func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)
	q := r.URL.Query()

	pageSize, ok := parsePageSize(q.Get("pageSize"))
	if !ok {
		respond.Error(w, http.StatusBadRequest, MsgInvalidPageSize)
		return
	}

	var res newsUC.Result
	query := strings.TrimSpace(q.Get("q"))
	category := strings.TrimSpace(q.Get("category"))

	switch {
	case query != "":
		res = h.Pipeline.Search(ctx, query, pageSize)
	case category != "":
		if !entity.IsValidCategory(category) {
			logger.Info("unknown category requested", slog.String("category", category))
			respond.Error(w, http.StatusBadRequest, MsgInvalidCategory)
			return
		}
		res = h.Pipeline.ByCategory(ctx, category, pageSize)
	default:
		res = h.Pipeline.Latest(ctx, pageSize)
	}

	logger.Debug("news served",
		slog.String("origin", string(res.Origin)),
		slog.String("outcome", string(res.Outcome)),
		slog.Int("count", len(res.Articles)))

	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	respond.JSON(w, http.StatusOK, NewResponse(res, now()))
}

func parsePageSize(raw string) (int, bool) {
	if raw == "" {
		return DefaultPageSize, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > MaxPageSize {
		return 0, false
	}
	return n, true
}
