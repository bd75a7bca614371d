package company

import (
	"context"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/crud"
)

type CompanyRepository interface {
	crud.Repository[Company]
	List(ctx context.Context, filter CompanyFilter) ([]Company, int64, error)
	ExistsByCNPJ(ctx context.Context, cnpj string, excludeID *string) (bool, error)
	ExistsByEmail(ctx context.Context, email string, excludeID *string) (bool, error)
}
