package memory

import (
	"context"
	"sort"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/absence"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/user"
)

type absenceRepository struct {
	*crudRepo[absence.Absence]
	users *table[user.User]
}

func NewAbsenceRepository(s *Store) absence.AbsenceRepository {
	return &absenceRepository{
		crudRepo: &crudRepo[absence.Absence]{
			table:    s.absences,
			id:       func(a absence.Absence) string { return a.ID },
			notFound: absence.ErrAbsenceNotFound,
		},
		users: s.users,
	}
}

func (r *absenceRepository) Review(ctx context.Context, id string, review absence.Review) (absence.Absence, error) {
	reviewed, found, err := r.table.update(ctx, id, func(a absence.Absence) (absence.Absence, error) {
		if a.Status != absence.StatusPending {
			return a, absence.ErrAbsenceNotPending
		}
		reviewer, at := review.ReviewerID, review.ReviewedAt
		a.Status = review.Status
		a.ApprovedBy = &reviewer
		a.ApprovedAt = &at
		a.UpdatedAt = at
		return a, nil
	})
	if !found {
		return absence.Absence{}, absence.ErrAbsenceNotFound
	}
	if err != nil {
		return absence.Absence{}, err
	}
	return reviewed, nil
}

func (r *absenceRepository) List(ctx context.Context, filter absence.AbsenceFilter) ([]absence.Absence, int64, error) {
	items := r.table.filter(func(a absence.Absence) bool {
		if filter.UserID != nil && a.UserID != *filter.UserID {
			return false
		}
		if filter.CompanyID != nil && !userInCompany(r.users, a.UserID, *filter.CompanyID) {
			return false
		}
		if filter.Status != nil && string(a.Status) != *filter.Status {
			return false
		}
		return true
	})
	sort.Slice(items, func(i, j int) bool {
		if !sameDay(items[i].Date, items[j].Date) {
			return civil(items[i].Date).After(civil(items[j].Date))
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})

	return paginate(items, filter.PageRequest()), int64(len(items)), nil
}
