package apilog

import (
	"context"
	"time"
)

type APILogRepository interface {
	Create(ctx context.Context, entry Entry) error
	// DeleteOlderThan removes entries created before cutoff and reports how many were removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
