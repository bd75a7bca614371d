package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/timerecord"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5/pgtype"
)

type timeRecordRepositoryImpl struct {
	db *database.DB
}

func NewTimeRecordRepository(db *database.DB) timerecord.TimeRecordRepository {
	return &timeRecordRepositoryImpl{db: db}
}

const timeRecordColumns = `id, user_id, date, entry_time, exit_time, lunch_start, lunch_end,
	worked_minutes, expected_minutes, notes,
	entry_time_recorded_at, exit_time_recorded_at, lunch_start_recorded_at, lunch_end_recorded_at,
	created_at, updated_at`

func scanTimeRecord(row scanner) (timerecord.TimeRecord, error) {
	var (
		r                                      timerecord.TimeRecord
		date                                   pgtype.Date
		entry, exit, lunchStart, lunchEnd pgtype.Time
	)
	err := row.Scan(&r.ID, &r.UserID, &date, &entry, &exit, &lunchStart, &lunchEnd,
		&r.WorkedMinutes, &r.ExpectedMinutes, &r.Notes,
		&r.EntryTimeRecordedAt, &r.ExitTimeRecordedAt, &r.LunchStartRecordedAt, &r.LunchEndRecordedAt,
		&r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return timerecord.TimeRecord{}, err
	}
	r.Date = date.Time
	r.EntryTime = clockValue(entry)
	r.ExitTime = clockValue(exit)
	r.LunchStart = clockValue(lunchStart)
	r.LunchEnd = clockValue(lunchEnd)
	return r, nil
}

func timeRecordArgs(r timerecord.TimeRecord) []any {
	return []any{r.ID, r.UserID, dateParam(r.Date),
		clockParam(r.EntryTime), clockParam(r.ExitTime), clockParam(r.LunchStart), clockParam(r.LunchEnd),
		r.WorkedMinutes, r.ExpectedMinutes, r.Notes,
		r.EntryTimeRecordedAt, r.ExitTimeRecordedAt, r.LunchStartRecordedAt, r.LunchEndRecordedAt}
}

func timeRecordWriteError(err error) error {
	if constraint, ok := uniqueConstraint(err); ok && constraint == "time_records_user_id_date_key" {
		return timerecord.ErrTimeRecordDateTaken
	}
	return err
}

// Create implements timerecord.TimeRecordRepository.
func (t *timeRecordRepositoryImpl) Create(ctx context.Context, r timerecord.TimeRecord) (timerecord.TimeRecord, error) {
	query := `
		INSERT INTO time_records (` + timeRecordColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING ` + timeRecordColumns

	args := append(timeRecordArgs(r), r.CreatedAt, r.UpdatedAt)
	created, err := scanTimeRecord(GetQuerier(ctx, t.db).QueryRow(ctx, query, args...))
	if err != nil {
		return timerecord.TimeRecord{}, timeRecordWriteError(fmt.Errorf("failed to create time record: %w", err))
	}
	return created, nil
}

// GetByID implements timerecord.TimeRecordRepository.
func (t *timeRecordRepositoryImpl) GetByID(ctx context.Context, id string) (timerecord.TimeRecord, error) {
	return queryOne(ctx, GetQuerier(ctx, t.db), timerecord.ErrTimeRecordNotFound, scanTimeRecord,
		`SELECT `+timeRecordColumns+` FROM time_records WHERE id = $1`, id)
}

// GetByUserAndDate implements timerecord.TimeRecordRepository.
func (t *timeRecordRepositoryImpl) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (timerecord.TimeRecord, error) {
	return queryOne(ctx, GetQuerier(ctx, t.db), timerecord.ErrTimeRecordNotFound, scanTimeRecord,
		`SELECT `+timeRecordColumns+` FROM time_records WHERE user_id = $1 AND date = $2`, userID, dateParam(date))
}

// Update implements timerecord.TimeRecordRepository.
func (t *timeRecordRepositoryImpl) Update(ctx context.Context, r timerecord.TimeRecord) (timerecord.TimeRecord, error) {
	query := `
		UPDATE time_records
		SET user_id = $2, date = $3, entry_time = $4, exit_time = $5, lunch_start = $6, lunch_end = $7,
			worked_minutes = $8, expected_minutes = $9, notes = $10,
			entry_time_recorded_at = $11, exit_time_recorded_at = $12,
			lunch_start_recorded_at = $13, lunch_end_recorded_at = $14, updated_at = $15
		WHERE id = $1
		RETURNING ` + timeRecordColumns

	args := append(timeRecordArgs(r), r.UpdatedAt)
	updated, err := queryOne(ctx, GetQuerier(ctx, t.db), timerecord.ErrTimeRecordNotFound, scanTimeRecord, query, args...)
	if err != nil {
		return timerecord.TimeRecord{}, timeRecordWriteError(err)
	}
	return updated, nil
}

// Delete implements timerecord.TimeRecordRepository.
func (t *timeRecordRepositoryImpl) Delete(ctx context.Context, id string) error {
	return execOne(ctx, GetQuerier(ctx, t.db), timerecord.ErrTimeRecordNotFound, `DELETE FROM time_records WHERE id = $1`, id)
}

// List implements timerecord.TimeRecordRepository.
func (t *timeRecordRepositoryImpl) List(ctx context.Context, q timerecord.Query) ([]timerecord.TimeRecord, int64, error) {
	db := GetQuerier(ctx, t.db)

	var w where
	if q.UserID != nil {
		w.add("tr.user_id = $%d", *q.UserID)
	}
	if q.CompanyID != nil {
		w.add("u.company_id = $%d", *q.CompanyID)
	}
	if q.StartDate != nil {
		w.add("tr.date >= $%d", dateParam(*q.StartDate))
	}
	if q.EndDate != nil {
		w.add("tr.date <= $%d", dateParam(*q.EndDate))
	}

	from := ` FROM time_records tr JOIN users u ON u.id = tr.user_id`

	total, err := count(ctx, db, `SELECT COUNT(*)`+from+w.String(), w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count time records: %w", err)
	}

	query := `SELECT ` + prefixColumns("tr", timeRecordColumns) + from + w.String() + ` ORDER BY tr.date DESC, tr.id DESC`
	query += w.paginate(q.Page)

	records, err := queryAll(ctx, db, scanTimeRecord, query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list time records: %w", err)
	}
	return records, total, nil
}
