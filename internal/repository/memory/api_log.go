package memory

import (
	"context"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/apilog"
)

type apiLogRepository struct {
	table *table[apilog.Entry]
}

func NewAPILogRepository(s *Store) apilog.APILogRepository {
	return &apiLogRepository{table: s.apiLogs}
}

func (r *apiLogRepository) Create(ctx context.Context, e apilog.Entry) error {
	_, err := r.table.put(ctx, e.ID, e, false, nil)
	return err
}

func (r *apiLogRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return r.table.deleteWhere(ctx, func(e apilog.Entry) bool { return e.CreatedAt.Before(cutoff) }), nil
}

// APILogs returns every stored entry; tests use it to inspect what the
// logging middleware wrote.
func (s *Store) APILogs() []apilog.Entry {
	return s.apiLogs.filter(nil)
}
