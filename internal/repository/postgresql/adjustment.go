package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/adjustment"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/timerecord"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type adjustmentRepositoryImpl struct {
	db *database.DB
}

func NewAdjustmentRepository(db *database.DB) adjustment.AdjustmentRepository {
	return &adjustmentRepositoryImpl{db: db}
}

const adjustmentColumns = `id, time_record_id, user_id, field_to_change, current_value, requested_value, reason,
	status, reviewed_by, reviewed_at, admin_notes, created_at, updated_at`

func scanAdjustment(row scanner) (adjustment.Adjustment, error) {
	var (
		a             adjustment.Adjustment
		field, status string
	)
	err := row.Scan(&a.ID, &a.TimeRecordID, &a.UserID, &field, &a.CurrentValue, &a.RequestedValue, &a.Reason,
		&status, &a.ReviewedBy, &a.ReviewedAt, &a.AdminNotes, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return adjustment.Adjustment{}, err
	}
	a.FieldToChange = timerecord.Field(field)
	a.Status = adjustment.Status(status)
	return a, nil
}

// Create implements adjustment.AdjustmentRepository.
func (r *adjustmentRepositoryImpl) Create(ctx context.Context, a adjustment.Adjustment) (adjustment.Adjustment, error) {
	query := `
		INSERT INTO time_record_adjustments (` + adjustmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + adjustmentColumns

	created, err := scanAdjustment(GetQuerier(ctx, r.db).QueryRow(ctx, query,
		a.ID, a.TimeRecordID, a.UserID, string(a.FieldToChange), a.CurrentValue, a.RequestedValue, a.Reason,
		string(a.Status), a.ReviewedBy, a.ReviewedAt, a.AdminNotes, a.CreatedAt, a.UpdatedAt))
	if err != nil {
		return adjustment.Adjustment{}, fmt.Errorf("failed to create adjustment request: %w", err)
	}
	return created, nil
}

// GetByID implements adjustment.AdjustmentRepository.
func (r *adjustmentRepositoryImpl) GetByID(ctx context.Context, id string) (adjustment.Adjustment, error) {
	return queryOne(ctx, GetQuerier(ctx, r.db), adjustment.ErrAdjustmentNotFound, scanAdjustment,
		`SELECT `+adjustmentColumns+` FROM time_record_adjustments WHERE id = $1`, id)
}

// Update implements adjustment.AdjustmentRepository.
func (r *adjustmentRepositoryImpl) Update(ctx context.Context, a adjustment.Adjustment) (adjustment.Adjustment, error) {
	query := `
		UPDATE time_record_adjustments
		SET field_to_change = $2, current_value = $3, requested_value = $4, reason = $5, updated_at = $6
		WHERE id = $1
		RETURNING ` + adjustmentColumns

	return queryOne(ctx, GetQuerier(ctx, r.db), adjustment.ErrAdjustmentNotFound, scanAdjustment, query,
		a.ID, string(a.FieldToChange), a.CurrentValue, a.RequestedValue, a.Reason, a.UpdatedAt)
}

// Delete implements adjustment.AdjustmentRepository.
func (r *adjustmentRepositoryImpl) Delete(ctx context.Context, id string) error {
	return execOne(ctx, GetQuerier(ctx, r.db), adjustment.ErrAdjustmentNotFound,
		`DELETE FROM time_record_adjustments WHERE id = $1`, id)
}

// Review implements adjustment.AdjustmentRepository.
func (r *adjustmentRepositoryImpl) Review(ctx context.Context, id string, review adjustment.Review) (adjustment.Adjustment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE time_record_adjustments
		SET status = $2, reviewed_by = $3, reviewed_at = $4, admin_notes = $5, updated_at = $4
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + adjustmentColumns

	reviewed, err := scanAdjustment(q.QueryRow(ctx, query, id, string(review.Status), review.ReviewerID, review.ReviewedAt, review.AdminNotes))
	if err == nil {
		return reviewed, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return adjustment.Adjustment{}, fmt.Errorf("failed to review adjustment request %s: %w", id, err)
	}

	current, err := r.GetByID(ctx, id)
	if err != nil {
		return adjustment.Adjustment{}, err
	}
	return adjustment.Adjustment{}, fmt.Errorf("%w with status %s", adjustment.ErrAdjustmentAlreadyReviewed, current.Status)
}

// List implements adjustment.AdjustmentRepository.
func (r *adjustmentRepositoryImpl) List(ctx context.Context, filter adjustment.AdjustmentFilter) ([]adjustment.Adjustment, int64, error) {
	q := GetQuerier(ctx, r.db)

	var w where
	if filter.UserID != nil {
		w.add("a.user_id = $%d", *filter.UserID)
	}
	if filter.CompanyID != nil {
		w.add("u.company_id = $%d", *filter.CompanyID)
	}
	if filter.TimeRecordID != nil {
		w.add("a.time_record_id = $%d", *filter.TimeRecordID)
	}
	if filter.Status != nil {
		w.add("a.status = $%d", *filter.Status)
	}

	from := ` FROM time_record_adjustments a JOIN users u ON u.id = a.user_id`

	total, err := count(ctx, q, `SELECT COUNT(*)`+from+w.String(), w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count adjustment requests: %w", err)
	}

	query := `SELECT ` + prefixColumns("a", adjustmentColumns) + from + w.String() + ` ORDER BY a.created_at DESC, a.id DESC`
	query += w.paginate(filter.PageRequest())

	items, err := queryAll(ctx, q, scanAdjustment, query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list adjustment requests: %w", err)
	}
	return items, total, nil
}
