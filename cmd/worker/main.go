// Command worker triggers the API refresh endpoint on a cron schedule.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"maroc-actualites/internal/infra/refresher"
	workerPkg "maroc-actualites/internal/infra/worker"
	"maroc-actualites/internal/observability/logging"
	"maroc-actualites/internal/resilience/retry"
)

// stopTimeout bounds how long shutdown waits for a running refresh.
const stopTimeout = 30 * time.Second

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env", slog.Any("error", err))
	}
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := workerPkg.NewWorkerMetrics(prometheus.DefaultRegisterer)
	cfg := workerPkg.LoadConfigFromEnv(logger, metrics)
	cfg.LogSummary(logger)

	retryCfg := retry.RefreshTriggerConfig()
	client := refresher.NewClient(
		refresher.Config{URL: cfg.RefreshURL, Secret: cfg.RefreshSecret, Timeout: cfg.RefreshTimeout},
		refresher.WithRetryConfig(retryCfg),
		refresher.WithLogger(logger),
	)
	// Every attempt may use the full timeout, plus the backoff between attempts.
	jobTimeout := time.Duration(retryCfg.MaxAttempts)*cfg.RefreshTimeout + retryCfg.MaxWait()
	job := workerPkg.NewRefreshJob(client, jobTimeout, metrics, logger)

	healthServer := workerPkg.NewHealthServer(fmt.Sprintf(":%d", cfg.HealthPort), job, prometheus.DefaultGatherer, logger)
	go func() {
		if err := healthServer.Start(ctx); err != nil && err != http.ErrServerClosed {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()

	scheduler, err := workerPkg.NewScheduler(cfg, job, logger)
	if err != nil {
		logger.Error("failed to schedule refresh job", slog.Any("error", err))
		os.Exit(1)
	}
	scheduler.Start()
	healthServer.SetReady(true)
	logger.Info("worker started",
		slog.String("schedule", cfg.CronSchedule),
		slog.String("timezone", cfg.Timezone))

	if cfg.RunOnStart {
		go job.Run()
	}

	<-ctx.Done()
	healthServer.SetReady(false)
	logger.Info("worker stopping")

	select {
	case <-scheduler.Stop().Done():
		logger.Info("worker stopped")
	case <-time.After(stopTimeout):
		logger.Warn("worker stopped with a refresh still running")
	}
}
