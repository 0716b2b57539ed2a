package worker

import (
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}

// NewScheduler builds a cron scheduler running job on cfg's schedule in cfg's
// time zone. Panics in the job are recovered and logged. The scheduler is not
// started.
func NewScheduler(cfg *WorkerConfig, job cron.Job, logger *slog.Logger) (*cron.Cron, error) {
	cl := cronLogger{logger: logger}
	c := cron.New(
		cron.WithLocation(cfg.Location()),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl)),
	)
	if _, err := c.AddJob(cfg.CronSchedule, job); err != nil {
		return nil, fmt.Errorf("schedule refresh job %q: %w", cfg.CronSchedule, err)
	}
	return c, nil
}
