package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/apilog"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPILogRepo struct {
	cutoff time.Time
	err    error
}

func (f *fakeAPILogRepo) Create(ctx context.Context, entry apilog.Entry) error { return nil }

func (f *fakeAPILogRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	f.cutoff = cutoff
	return 3, f.err
}

func TestPurgeExpired_UsesRetentionWindow(t *testing.T) {
	now := time.Date(2026, 5, 31, 3, 0, 0, 0, time.UTC)
	repo := &fakeAPILogRepo{}
	jobs := NewAPILogJobs(repo, clock.Fixed(now), 0, 0)

	require.NoError(t, jobs.PurgeExpired(context.Background()))
	assert.Equal(t, time.Date(2026, 5, 1, 3, 0, 0, 0, time.UTC), repo.cutoff)
}

func TestPurgeExpired_WrapsError(t *testing.T) {
	boom := errors.New("boom")
	jobs := NewAPILogJobs(&fakeAPILogRepo{err: boom}, clock.System(), 7, time.Hour)

	err := jobs.PurgeExpired(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestScheduler_RunOnceAndStop(t *testing.T) {
	s := NewScheduler(context.Background())
	calls := 0
	s.AddJob("count", time.Hour, func(ctx context.Context) error {
		calls++
		return nil
	})

	s.RunOnce(context.Background())
	assert.Equal(t, 1, calls)

	s.Start()
	s.Stop()
	assert.GreaterOrEqual(t, calls, 2, "Start runs each job immediately")
}
