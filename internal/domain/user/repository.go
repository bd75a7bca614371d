package user

import (
	"context"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/crud"
)

type UserRepository interface {
	crud.Repository[User]
	GetByEmail(ctx context.Context, email string) (User, error)
	List(ctx context.Context, filter UserFilter) ([]User, int64, error)
	// Count returns the number of users in the installation.
	Count(ctx context.Context) (int64, error)
	CountByCompany(ctx context.Context, companyID string) (int64, error)
}
