package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/user"
)

type userRepository struct {
	*crudRepo[user.User]
}

func NewUserRepository(s *Store) user.UserRepository {
	return &userRepository{crudRepo: &crudRepo[user.User]{
		table:    s.users,
		id:       func(u user.User) string { return u.ID },
		notFound: user.ErrUserNotFound,
		conflict: func(existing, candidate user.User) error {
			if strings.EqualFold(existing.Email, candidate.Email) {
				return user.ErrUserEmailExists
			}
			return nil
		},
	}}
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	found := r.table.filter(func(u user.User) bool { return strings.EqualFold(u.Email, email) })
	if len(found) == 0 {
		return user.User{}, user.ErrUserNotFound
	}
	return found[0], nil
}

func (r *userRepository) List(ctx context.Context, filter user.UserFilter) ([]user.User, int64, error) {
	search := ""
	if filter.Search != nil {
		search = strings.ToLower(*filter.Search)
	}

	items := r.table.filter(func(u user.User) bool {
		if filter.CompanyID != nil && (u.CompanyID == nil || *u.CompanyID != *filter.CompanyID) {
			return false
		}
		if filter.Role != nil && string(u.Role) != *filter.Role {
			return false
		}
		if filter.Active != nil && u.Active != *filter.Active {
			return false
		}
		if search != "" && !strings.Contains(strings.ToLower(u.Name), search) && !strings.Contains(strings.ToLower(u.Email), search) {
			return false
		}
		return true
	})
	sort.Slice(items, func(i, j int) bool {
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].ID < items[j].ID
	})

	return paginate(items, filter.PageRequest()), int64(len(items)), nil
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	return int64(len(r.table.filter(nil))), nil
}

func (r *userRepository) CountByCompany(ctx context.Context, companyID string) (int64, error) {
	items := r.table.filter(func(u user.User) bool { return u.CompanyID != nil && *u.CompanyID == companyID })
	return int64(len(items)), nil
}
