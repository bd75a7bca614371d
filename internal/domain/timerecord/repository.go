package timerecord

import (
	"context"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/crud"
)

// Query selects records. A zero Page returns every matching record.
type Query struct {
	UserID    *string
	CompanyID *string
	StartDate *time.Time
	EndDate   *time.Time
	Page      crud.Page
}

type TimeRecordRepository interface {
	crud.Repository[TimeRecord]
	GetByUserAndDate(ctx context.Context, userID string, date time.Time) (TimeRecord, error)
	// List returns matching records ordered by date descending and the total
	// count ignoring pagination.
	List(ctx context.Context, q Query) ([]TimeRecord, int64, error)
}
