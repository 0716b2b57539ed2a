package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"maroc-actualites/internal/handler/http/respond"
	"maroc-actualites/internal/infra/refresher"
)

// Trigger starts one refresh on the API. *refresher.Client satisfies it.
type Trigger interface {
	Trigger(ctx context.Context) (refresher.Report, error)
}

// RunStatus describes the most recent run, for the health endpoint.
type RunStatus struct {
	StartedAt time.Time `json:"started_at"`
	Duration  string    `json:"duration"`
	Success   bool      `json:"success"`
	LiveCount int       `json:"live_count"`
	Error     string    `json:"error,omitempty"`
}

// RefreshJob triggers one refresh per cron tick. Ticks that arrive while a run
// is still in progress are skipped.
type RefreshJob struct {
	trigger Trigger
	timeout time.Duration
	metrics *WorkerMetrics
	logger  *slog.Logger

	running sync.Mutex

	mu   sync.RWMutex
	last *RunStatus
}

// NewRefreshJob creates a job. metrics may be nil.
func NewRefreshJob(trigger Trigger, timeout time.Duration, metrics *WorkerMetrics, logger *slog.Logger) *RefreshJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &RefreshJob{trigger: trigger, timeout: timeout, metrics: metrics, logger: logger}
}

// Run executes the job once. It implements cron.Job.
func (j *RefreshJob) Run() {
	_ = j.RunContext(context.Background())
}

// ErrAlreadyRunning is returned by RunContext when the previous run has not finished.
var ErrAlreadyRunning = errors.New("worker: refresh already running")

// RunContext executes the job once under ctx, bounded by the job timeout.
func (j *RefreshJob) RunContext(ctx context.Context) error {
	if !j.running.TryLock() {
		j.logger.Warn("refresh skipped: previous run still in progress")
		j.record("skipped")
		return ErrAlreadyRunning
	}
	defer j.running.Unlock()

	start := time.Now()
	j.logger.Info("refresh started")

	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	report, err := j.trigger.Trigger(ctx)
	duration := time.Since(start)
	status := RunStatus{StartedAt: start, Duration: duration.Round(time.Millisecond).String()}

	if j.metrics != nil {
		j.metrics.RecordJobDuration(duration.Seconds())
	}

	if err != nil {
		status.Error = respond.SanitizeError(err)
		j.logger.Error("refresh failed",
			slog.Duration("duration", duration),
			slog.String("error", status.Error))
		j.record("failure")
		j.setLast(status)
		return err
	}

	status.Success = true
	status.LiveCount = report.LiveCount
	j.record("success")
	if j.metrics != nil {
		j.metrics.RecordCategories(report.CountByOrigin())
		j.metrics.RecordLastSuccess()
	}
	j.setLast(status)

	j.logger.Info("refresh completed",
		slog.Int("categories", len(report.Categories)),
		slog.Int("live_categories", report.LiveCount),
		slog.Int64("api_duration_ms", report.DurationMs),
		slog.Duration("duration", duration))
	return nil
}

// LastRun returns the most recent completed run, or false before the first one.
func (j *RefreshJob) LastRun() (RunStatus, bool) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if j.last == nil {
		return RunStatus{}, false
	}
	return *j.last, true
}

func (j *RefreshJob) setLast(s RunStatus) {
	j.mu.Lock()
	j.last = &s
	j.mu.Unlock()
}

func (j *RefreshJob) record(status string) {
	if j.metrics != nil {
		j.metrics.RecordJobRun(status)
	}
}
