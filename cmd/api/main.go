// Command api serves the Moroccan news API: article lists per category, latest
// and search, the category catalogue, the cron refresh trigger, health checks and
// Prometheus metrics.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/joho/godotenv"

	"maroc-actualites/internal/config"
	hhttp "maroc-actualites/internal/handler/http"
	hcategory "maroc-actualites/internal/handler/http/category"
	"maroc-actualites/internal/handler/http/middleware"
	hnews "maroc-actualites/internal/handler/http/news"
	hrefresh "maroc-actualites/internal/handler/http/refresh"
	"maroc-actualites/internal/handler/http/requestid"
	"maroc-actualites/internal/infra/cache"
	"maroc-actualites/internal/infra/linkcheck"
	"maroc-actualites/internal/infra/newsapi"
	"maroc-actualites/internal/infra/sample"
	"maroc-actualites/internal/observability/logging"
	"maroc-actualites/internal/observability/tracing"
	"maroc-actualites/internal/usecase/news"
	pkgconfig "maroc-actualites/pkg/config"
	"maroc-actualites/pkg/ratelimit"
	"maroc-actualites/pkg/security/csp"
)

const serviceName = "maroc-actualites-api"

func main() {
	loadDotEnv()
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, tracing.ConfigFromEnv(serviceName))
	if err != nil {
		logger.Error("failed to initialise tracing", slog.Any("error", err))
		os.Exit(1)
	}

	cfg := config.LoadNewsConfig()
	cfg.LogSummary(logger)

	version := pkgconfig.GetEnvString("SERVICE_VERSION", "dev")
	handler := setupServer(logger, cfg, version)

	runServer(ctx, logger, cfg.Server, handler)

	flushCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := shutdownTracing(flushCtx); err != nil {
		logger.Error("tracing shutdown failed", slog.Any("error", err))
	}
}

// loadDotEnv loads .env when present. A missing file is normal in containers.
func loadDotEnv() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env", slog.Any("error", err))
	}
}

// setupServer wires the pipeline, routes and middleware chain.
func setupServer(logger *slog.Logger, cfg *config.NewsConfig, version string) http.Handler {
	samples, err := sample.Load()
	if err != nil {
		logger.Error("failed to load sample set", slog.Any("error", err))
		os.Exit(1)
	}

	// A nil searcher makes every entry point serve the sample set.
	var searcher news.ArticleSearcher
	client, err := newsapi.NewClient(cfg.NewsAPI, newsapi.WithLogger(logger))
	switch {
	case errors.Is(err, newsapi.ErrMissingAPIKey):
		logger.Warn("NEWS_API_KEY not set, serving sample articles only")
	case err != nil:
		logger.Error("invalid upstream configuration, serving sample articles only", slog.Any("error", err))
	default:
		searcher = client
	}

	validator := linkcheck.New(cfg.LinkCheck, linkcheck.WithLogger(logger))
	svc := news.NewService(searcher, validator, samples, cfg.Pipeline)

	var (
		pipeline  hnews.Pipeline     = svc
		refresher hrefresh.Refresher = svc
	)
	if cfg.Cache.Enabled {
		rc := cache.New(svc, cfg.Cache)
		pipeline, refresher = rc, rc
		logger.Info("result cache enabled",
			slog.Duration("latest_ttl", cfg.Cache.LatestTTL),
			slog.Duration("category_ttl", cfg.Cache.CategoryTTL),
			slog.Duration("search_ttl", cfg.Cache.SearchTTL))
	}

	apiMux := http.NewServeMux()
	hnews.Register(apiMux, pipeline)
	hcategory.Register(apiMux)
	hrefresh.Register(apiMux, refresher, cfg.CronSecret)
	if cfg.CronSecret == "" {
		logger.Warn("CRON_SECRET not set, refresh endpoint is open")
	}

	health := &hhttp.HealthHandler{Version: version, SampleCount: samples.Len()}
	if client != nil {
		health.Upstream = client
	}

	mux := http.NewServeMux()
	mux.Handle("/api/", rateLimited(logger, cfg.RateLimit, apiMux))
	mux.Handle("GET /health", health)
	mux.HandleFunc("GET /health/live", hhttp.LiveHandler)
	mux.Handle("GET /health/ready", hhttp.ReadyHandler(samples.Len()))
	mux.Handle("GET /metrics", hhttp.MetricsHandler())

	corsCfg, err := middleware.LoadCORSConfig()
	if err != nil {
		logger.Error("failed to load CORS configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("CORS configured", slog.Any("allowed_origins", corsCfg.AllowedOrigins))

	return hhttp.Chain(mux,
		requestid.Middleware,
		hhttp.Recover(logger),
		tracing.Middleware,
		hhttp.Logging(logger),
		hhttp.MetricsMiddleware,
		middleware.SecurityHeaders(csp.APIPolicy()),
		middleware.CORS(corsCfg, logger),
		hhttp.InputValidation(cfg.Server.MaxBodyBytes),
	)
}

// rateLimited applies the per-IP limiter to the /api/ routes.
func rateLimited(logger *slog.Logger, cfg ratelimit.Config, next http.Handler) http.Handler {
	if !cfg.Enabled {
		logger.Warn("rate limiting is disabled")
		return next
	}

	proxyCfg, err := middleware.LoadTrustedProxyConfig()
	if err != nil {
		logger.Error("failed to load trusted proxy configuration", slog.Any("error", err))
		os.Exit(1)
	}

	var extractor middleware.IPExtractor = middleware.RemoteAddrExtractor{}
	if proxyCfg.Enabled {
		extractor = middleware.NewTrustedProxyExtractor(proxyCfg, logger)
		logger.Info("rate limiting: trusted proxy mode enabled",
			slog.Int("trusted_proxies_count", len(proxyCfg.AllowedCIDRs)))
	}

	logger.Info("rate limiting enabled",
		slog.Int("limit", cfg.Limit),
		slog.Duration("window", cfg.Window),
		slog.Int("burst", cfg.Burst))
	return middleware.NewIPRateLimiter(ratelimit.New(cfg), extractor, logger).Middleware(next)
}

// runServer serves until ctx is cancelled, then drains in-flight requests.
func runServer(ctx context.Context, logger *slog.Logger, cfg config.ServerConfig, handler http.Handler) {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		BaseContext: func(_ net.Listener) context.Context {
			return context.WithoutCancel(ctx)
		},
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", slog.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		logger.Error("server failed", slog.Any("error", err))
		os.Exit(1)
	case <-ctx.Done():
	}

	logger.Info("shutting down server", slog.Duration("timeout", cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.Any("error", err))
		return
	}
	logger.Info("server stopped")
}
