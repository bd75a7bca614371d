package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/absence"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type absenceRepositoryImpl struct {
	db *database.DB
}

func NewAbsenceRepository(db *database.DB) absence.AbsenceRepository {
	return &absenceRepositoryImpl{db: db}
}

const absenceColumns = `id, user_id, date, start_time, end_time, reason, description, status, approved_by, approved_at, impact_type, created_at, updated_at`

func scanAbsence(row scanner) (absence.Absence, error) {
	var (
		a              absence.Absence
		date           pgtype.Date
		start, end     pgtype.Time
		status, impact string
	)
	err := row.Scan(&a.ID, &a.UserID, &date, &start, &end, &a.Reason, &a.Description, &status,
		&a.ApprovedBy, &a.ApprovedAt, &impact, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return absence.Absence{}, err
	}
	a.Date = date.Time
	if c := clockValue(start); c != nil {
		a.StartTime = *c
	}
	if c := clockValue(end); c != nil {
		a.EndTime = *c
	}
	a.Status = absence.Status(status)
	a.ImpactType = absence.ImpactType(impact)
	return a, nil
}

// Create implements absence.AbsenceRepository.
func (r *absenceRepositoryImpl) Create(ctx context.Context, a absence.Absence) (absence.Absence, error) {
	query := `
		INSERT INTO absences (` + absenceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + absenceColumns

	created, err := scanAbsence(GetQuerier(ctx, r.db).QueryRow(ctx, query,
		a.ID, a.UserID, dateParam(a.Date), clockParam(&a.StartTime), clockParam(&a.EndTime),
		a.Reason, a.Description, string(a.Status), a.ApprovedBy, a.ApprovedAt, string(a.ImpactType),
		a.CreatedAt, a.UpdatedAt))
	if err != nil {
		return absence.Absence{}, fmt.Errorf("failed to create absence: %w", err)
	}
	return created, nil
}

// GetByID implements absence.AbsenceRepository.
func (r *absenceRepositoryImpl) GetByID(ctx context.Context, id string) (absence.Absence, error) {
	return queryOne(ctx, GetQuerier(ctx, r.db), absence.ErrAbsenceNotFound, scanAbsence,
		`SELECT `+absenceColumns+` FROM absences WHERE id = $1`, id)
}

// Update implements absence.AbsenceRepository.
func (r *absenceRepositoryImpl) Update(ctx context.Context, a absence.Absence) (absence.Absence, error) {
	query := `
		UPDATE absences
		SET date = $2, start_time = $3, end_time = $4, reason = $5, description = $6,
			impact_type = $7, updated_at = $8
		WHERE id = $1
		RETURNING ` + absenceColumns

	return queryOne(ctx, GetQuerier(ctx, r.db), absence.ErrAbsenceNotFound, scanAbsence, query,
		a.ID, dateParam(a.Date), clockParam(&a.StartTime), clockParam(&a.EndTime), a.Reason, a.Description,
		string(a.ImpactType), a.UpdatedAt)
}

// Delete implements absence.AbsenceRepository.
func (r *absenceRepositoryImpl) Delete(ctx context.Context, id string) error {
	return execOne(ctx, GetQuerier(ctx, r.db), absence.ErrAbsenceNotFound, `DELETE FROM absences WHERE id = $1`, id)
}

// Review implements absence.AbsenceRepository.
func (r *absenceRepositoryImpl) Review(ctx context.Context, id string, review absence.Review) (absence.Absence, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE absences
		SET status = $2, approved_by = $3, approved_at = $4, updated_at = $4
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + absenceColumns

	reviewed, err := scanAbsence(q.QueryRow(ctx, query, id, string(review.Status), review.ReviewerID, review.ReviewedAt))
	if err == nil {
		return reviewed, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return absence.Absence{}, fmt.Errorf("failed to review absence %s: %w", id, err)
	}

	if _, err := r.GetByID(ctx, id); err != nil {
		return absence.Absence{}, err
	}
	return absence.Absence{}, absence.ErrAbsenceNotPending
}

// List implements absence.AbsenceRepository.
func (r *absenceRepositoryImpl) List(ctx context.Context, filter absence.AbsenceFilter) ([]absence.Absence, int64, error) {
	q := GetQuerier(ctx, r.db)

	var w where
	if filter.UserID != nil {
		w.add("a.user_id = $%d", *filter.UserID)
	}
	if filter.CompanyID != nil {
		w.add("u.company_id = $%d", *filter.CompanyID)
	}
	if filter.Status != nil {
		w.add("a.status = $%d", *filter.Status)
	}

	from := ` FROM absences a JOIN users u ON u.id = a.user_id`

	total, err := count(ctx, q, `SELECT COUNT(*)`+from+w.String(), w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count absences: %w", err)
	}

	query := `SELECT ` + prefixColumns("a", absenceColumns) + from + w.String() + ` ORDER BY a.date DESC, a.created_at DESC`
	query += w.paginate(filter.PageRequest())

	absences, err := queryAll(ctx, q, scanAbsence, query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list absences: %w", err)
	}
	return absences, total, nil
}
