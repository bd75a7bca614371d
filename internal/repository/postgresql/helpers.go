package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/crud"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/timerecord"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

const uniqueViolation = "23505"

// scanner is satisfied by both pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// queryOne runs a single-row query, mapping pgx.ErrNoRows to notFound.
func queryOne[T any](ctx context.Context, q database.Querier, notFound error, scan func(scanner) (T, error), sql string, args ...any) (T, error) {
	out, err := scan(q.QueryRow(ctx, sql, args...))
	if err != nil {
		var zero T
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, notFound
		}
		return zero, err
	}
	return out, nil
}

func queryAll[T any](ctx context.Context, q database.Querier, scan func(scanner) (T, error), sql string, args ...any) ([]T, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]T, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// execOne runs a write that must touch exactly one row.
func execOne(ctx context.Context, q database.Querier, notFound error, sql string, args ...any) error {
	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return notFound
	}
	return nil
}

func count(ctx context.Context, q database.Querier, sql string, args ...any) (int64, error) {
	var n int64
	if err := q.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// uniqueConstraint returns the violated constraint name for unique violations.
func uniqueConstraint(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}

// where accumulates AND-ed conditions with positional arguments. Each
// condition carries one %d verb for its placeholder index.
type where struct {
	clauses []string
	args    []any
}

func (w *where) add(cond string, arg any) {
	w.args = append(w.args, arg)
	w.clauses = append(w.clauses, fmt.Sprintf(cond, len(w.args)))
}

func (w *where) String() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

// paginate appends LIMIT/OFFSET placeholders; a zero page selects everything.
func (w *where) paginate(p crud.Page) string {
	if p.Limit <= 0 {
		return ""
	}
	args := len(w.args)
	w.args = append(w.args, p.Limit, p.Offset())
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", args+1, args+2)
}

func clockParam(c *timerecord.ClockTime) pgtype.Time {
	if c == nil {
		return pgtype.Time{}
	}
	return pgtype.Time{Microseconds: int64(c.Minutes()) * int64(time.Minute/time.Microsecond), Valid: true}
}

func clockValue(t pgtype.Time) *timerecord.ClockTime {
	if !t.Valid {
		return nil
	}
	c := timerecord.ClockTime(t.Microseconds / int64(time.Minute/time.Microsecond))
	return &c
}

// dateParam passes only the civil date so the session time zone cannot shift it.
func dateParam(t time.Time) pgtype.Date {
	return pgtype.Date{Time: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), Valid: true}
}

// prefixColumns qualifies a comma-separated column list with a table alias.
func prefixColumns(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}
