package refresh_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maroc-actualites/internal/handler/http/refresh"
	newsUC "maroc-actualites/internal/usecase/news"
)

type stubRefresher struct {
	calls int
}

func (s *stubRefresher) Refresh(context.Context) newsUC.RefreshReport {
	s.calls++
	return newsUC.RefreshReport{
		StartedAt: time.Date(2026, 1, 2, 6, 0, 0, 0, time.UTC),
		Duration:  1500 * time.Millisecond,
		Categories: []newsUC.CategoryReport{
			{Slug: "general", Origin: newsUC.OriginLive, Outcome: newsUC.OutcomeLive, Fetched: 30, Valid: 12, Rejected: 18, Returned: 10},
			{Slug: "sport", Origin: newsUC.OriginSample, Outcome: newsUC.OutcomeInsufficient, Fetched: 30, Valid: 2, Rejected: 28, Returned: 10},
		},
	}
}

// ────────────────────────────────────────────────────────────
// Authorisation
// ────────────────────────────────────────────────────────────

func TestHandler_Authorisation(t *testing.T) {
	tests := []struct {
		name     string
		secret   string
		headers  map[string]string
		wantCode int
	}{
		{name: "open without secret", secret: "", wantCode: http.StatusOK},
		{name: "bearer", secret: "s3cret", headers: map[string]string{"Authorization": "Bearer s3cret"}, wantCode: http.StatusOK},
		{name: "header", secret: "s3cret", headers: map[string]string{"X-Cron-Secret": "s3cret"}, wantCode: http.StatusOK},
		{name: "missing", secret: "s3cret", wantCode: http.StatusUnauthorized},
		{name: "wrong bearer", secret: "s3cret", headers: map[string]string{"Authorization": "Bearer nope"}, wantCode: http.StatusUnauthorized},
		{name: "wrong scheme", secret: "s3cret", headers: map[string]string{"Authorization": "Basic s3cret"}, wantCode: http.StatusUnauthorized},
		{name: "prefix of secret", secret: "s3cret", headers: map[string]string{"X-Cron-Secret": "s3c"}, wantCode: http.StatusUnauthorized},
		{
			name:     "wrong bearer but good header",
			secret:   "s3cret",
			headers:  map[string]string{"Authorization": "Bearer nope", "X-Cron-Secret": "s3cret"},
			wantCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubRefresher{}
			h := refresh.Handler{Refresher: stub, Secret: tt.secret}

			r := httptest.NewRequest(http.MethodGet, "/api/cron/refresh", nil)
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, r)

			require.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode == http.StatusUnauthorized {
				assert.JSONEq(t, `{"error":"Non autorisé"}`, rec.Body.String())
				assert.Zero(t, stub.calls)
			} else {
				assert.Equal(t, 1, stub.calls)
			}
		})
	}
}

// ────────────────────────────────────────────────────────────
// Response
// ────────────────────────────────────────────────────────────

func TestHandler_Response(t *testing.T) {
	h := refresh.Handler{Refresher: &stubRefresher{}}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/cron/refresh", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp refresh.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, int64(1500), resp.DurationMs)
	assert.Equal(t, 1, resp.LiveCount)
	assert.Equal(t, "Cache rafraîchi : 1/2 catégories en direct", resp.Message)
	require.Len(t, resp.Categories, 2)
	assert.Equal(t, refresh.CategoryDTO{
		Slug: "sport", Origin: "sample", Outcome: "insufficient",
		Fetched: 30, Valid: 2, Rejected: 28, Returned: 10,
	}, resp.Categories[1])
}

func TestRegister_Methods(t *testing.T) {
	mux := http.NewServeMux()
	refresh.Register(mux, &stubRefresher{}, "")

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(method, "/api/cron/refresh", nil))
		assert.Equal(t, http.StatusOK, rec.Code, method)
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/cron/refresh", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
