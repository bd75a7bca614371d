package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/timerecord"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/user"
)

type timeRecordRepository struct {
	*crudRepo[timerecord.TimeRecord]
	users *table[user.User]
}

func NewTimeRecordRepository(s *Store) timerecord.TimeRecordRepository {
	return &timeRecordRepository{
		crudRepo: &crudRepo[timerecord.TimeRecord]{
			table:    s.timeRecords,
			id:       func(r timerecord.TimeRecord) string { return r.ID },
			notFound: timerecord.ErrTimeRecordNotFound,
			conflict: func(existing, candidate timerecord.TimeRecord) error {
				if existing.UserID == candidate.UserID && sameDay(existing.Date, candidate.Date) {
					return timerecord.ErrTimeRecordDateTaken
				}
				return nil
			},
		},
		users: s.users,
	}
}

func (r *timeRecordRepository) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (timerecord.TimeRecord, error) {
	found := r.table.filter(func(tr timerecord.TimeRecord) bool {
		return tr.UserID == userID && sameDay(tr.Date, date)
	})
	if len(found) == 0 {
		return timerecord.TimeRecord{}, timerecord.ErrTimeRecordNotFound
	}
	return found[0], nil
}

func (r *timeRecordRepository) List(ctx context.Context, q timerecord.Query) ([]timerecord.TimeRecord, int64, error) {
	items := r.table.filter(func(tr timerecord.TimeRecord) bool {
		if q.UserID != nil && tr.UserID != *q.UserID {
			return false
		}
		if q.CompanyID != nil && !userInCompany(r.users, tr.UserID, *q.CompanyID) {
			return false
		}
		if q.StartDate != nil && civil(tr.Date).Before(civil(*q.StartDate)) {
			return false
		}
		if q.EndDate != nil && civil(tr.Date).After(civil(*q.EndDate)) {
			return false
		}
		return true
	})
	sort.Slice(items, func(i, j int) bool {
		if !sameDay(items[i].Date, items[j].Date) {
			return civil(items[i].Date).After(civil(items[j].Date))
		}
		return items[i].ID > items[j].ID
	})

	return paginate(items, q.Page), int64(len(items)), nil
}

// civil drops the clock and zone so dates compare like DATE columns.
func civil(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func sameDay(a, b time.Time) bool {
	return civil(a).Equal(civil(b))
}

func userInCompany(users *table[user.User], userID, companyID string) bool {
	u, ok := users.get(userID)
	return ok && u.CompanyID != nil && *u.CompanyID == companyID
}
