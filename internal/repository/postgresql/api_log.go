package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/apilog"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/database"
)

type apiLogRepositoryImpl struct {
	db *database.DB
}

func NewAPILogRepository(db *database.DB) apilog.APILogRepository {
	return &apiLogRepositoryImpl{db: db}
}

// Create implements apilog.APILogRepository.
func (r *apiLogRepositoryImpl) Create(ctx context.Context, e apilog.Entry) error {
	query := `
		INSERT INTO api_logs (id, level, url, method, ip, request_id, status_code, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	if _, err := GetQuerier(ctx, r.db).Exec(ctx, query,
		e.ID, string(e.Level), e.URL, e.Method, e.IP, e.RequestID, e.StatusCode, e.Message, e.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert api log: %w", err)
	}
	return nil
}

// DeleteOlderThan implements apilog.APILogRepository.
func (r *apiLogRepositoryImpl) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := GetQuerier(ctx, r.db).Exec(ctx, `DELETE FROM api_logs WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete api logs: %w", err)
	}
	return tag.RowsAffected(), nil
}
