package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/apilog"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/clock"
)

type APILogJobs struct {
	repo          apilog.APILogRepository
	clock         clock.Clock
	retentionDays int
	interval      time.Duration
}

func NewAPILogJobs(repo apilog.APILogRepository, clk clock.Clock, retentionDays int, interval time.Duration) *APILogJobs {
	if retentionDays < 1 {
		retentionDays = apilog.DefaultRetentionDays
	}
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &APILogJobs{repo: repo, clock: clk, retentionDays: retentionDays, interval: interval}
}

func (j *APILogJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("purge_api_logs", j.interval, j.PurgeExpired)
}

// PurgeExpired deletes API log entries older than the retention window.
func (j *APILogJobs) PurgeExpired(ctx context.Context) error {
	cutoff := j.clock.Now().AddDate(0, 0, -j.retentionDays)

	deleted, err := j.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to purge api logs: %w", err)
	}

	slog.Info("Cron: purged api logs", "deleted", deleted, "cutoff", cutoff.Format(time.RFC3339), "retention_days", j.retentionDays)
	return nil
}
