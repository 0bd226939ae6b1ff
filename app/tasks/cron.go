package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// CronRunner triggers ingestion runs on a cron schedule. A tick that fires
// while the previous run is still going is skipped.
type CronRunner struct {
	cron   *cron.Cron
	runner IngestionRunner
	feeds  FeedInvalidator
	out    io.Writer
	ctx    context.Context
	cancel context.CancelFunc
}

// NewCronRunner schedules runner. feeds may be nil when no feed cache is
// configured.
func NewCronRunner(schedule string, runner IngestionRunner, feeds FeedInvalidator, out io.Writer) (*CronRunner, error) {
	ctx, cancel := context.WithCancel(context.Background())

	logger := cronLogger{}
	r := &CronRunner{
		cron:   cron.New(cron.WithLogger(logger), cron.WithChain(cron.SkipIfStillRunning(logger))),
		runner: runner,
		feeds:  feeds,
		out:    out,
		ctx:    ctx,
		cancel: cancel,
	}

	if _, err := r.cron.AddFunc(schedule, r.runOnce); err != nil {
		cancel()
		return nil, fmt.Errorf("invalid schedule %q: %w", schedule, err)
	}

	return r, nil
}

func (r *CronRunner) Start() {
	r.cron.Start()
	slog.Info("Scheduled ingestion enabled", "next_run", r.cron.Entries()[0].Next)
}

// Stop cancels a running batch and waits for it to return.
func (r *CronRunner) Stop() {
	r.cancel()
	<-r.cron.Stop().Done()
}

func (r *CronRunner) runOnce() {
	summary, err := r.runner.Run(r.ctx)
	if err != nil {
		if errors.Is(err, ErrRunInProgress) {
			slog.Warn("Skipping scheduled ingestion", "error", err)
			return
		}
		slog.Error("Scheduled ingestion failed", "error", err)
		return
	}

	if r.feeds != nil {
		if err := r.feeds.InvalidateFeeds(r.ctx); err != nil {
			slog.Warn("Feed cache error", "operation", "invalidate_feeds", "error", err)
		}
	}

	if err := summary.Write(r.out); err != nil {
		slog.Error("Failed to write run summary", "error", err)
	}
}

type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	slog.Debug(msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	slog.Error(msg, append([]interface{}{"error", err}, keysAndValues...)...)
}
