package company

import (
	"context"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/user"
)

type CompanyService interface {
	List(ctx context.Context, filter CompanyFilter) (ListCompanyResponse, error)
	Create(ctx context.Context, req CreateCompanyRequest) (CompanyResponse, error)
	GetByID(ctx context.Context, id string) (CompanyResponse, error)
	GetMine(ctx context.Context, actor user.Actor) (CompanyResponse, error)
	Update(ctx context.Context, id string, req UpdateCompanyRequest) (CompanyResponse, error)
	Delete(ctx context.Context, id string) error
}
