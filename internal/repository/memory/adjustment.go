package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/adjustment"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/user"
)

type adjustmentRepository struct {
	*crudRepo[adjustment.Adjustment]
	users *table[user.User]
}

func NewAdjustmentRepository(s *Store) adjustment.AdjustmentRepository {
	return &adjustmentRepository{
		crudRepo: &crudRepo[adjustment.Adjustment]{
			table:    s.adjustments,
			id:       func(a adjustment.Adjustment) string { return a.ID },
			notFound: adjustment.ErrAdjustmentNotFound,
		},
		users: s.users,
	}
}

func (r *adjustmentRepository) Review(ctx context.Context, id string, review adjustment.Review) (adjustment.Adjustment, error) {
	reviewed, found, err := r.table.update(ctx, id, func(a adjustment.Adjustment) (adjustment.Adjustment, error) {
		if a.Status != adjustment.StatusPending {
			return a, fmt.Errorf("%w with status %s", adjustment.ErrAdjustmentAlreadyReviewed, a.Status)
		}
		reviewer, at := review.ReviewerID, review.ReviewedAt
		a.Status = review.Status
		a.ReviewedBy = &reviewer
		a.ReviewedAt = &at
		a.AdminNotes = review.AdminNotes
		a.UpdatedAt = at
		return a, nil
	})
	if !found {
		return adjustment.Adjustment{}, adjustment.ErrAdjustmentNotFound
	}
	if err != nil {
		return adjustment.Adjustment{}, err
	}
	return reviewed, nil
}

func (r *adjustmentRepository) List(ctx context.Context, filter adjustment.AdjustmentFilter) ([]adjustment.Adjustment, int64, error) {
	items := r.table.filter(func(a adjustment.Adjustment) bool {
		if filter.UserID != nil && a.UserID != *filter.UserID {
			return false
		}
		if filter.CompanyID != nil && !userInCompany(r.users, a.UserID, *filter.CompanyID) {
			return false
		}
		if filter.TimeRecordID != nil && a.TimeRecordID != *filter.TimeRecordID {
			return false
		}
		if filter.Status != nil && string(a.Status) != *filter.Status {
			return false
		}
		return true
	})
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID > items[j].ID
	})

	return paginate(items, filter.PageRequest()), int64(len(items)), nil
}
