package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/company"
)

type companyRepository struct {
	*crudRepo[company.Company]
}

func NewCompanyRepository(s *Store) company.CompanyRepository {
	return &companyRepository{crudRepo: &crudRepo[company.Company]{
		table:    s.companies,
		id:       func(c company.Company) string { return c.ID },
		notFound: company.ErrCompanyNotFound,
		conflict: func(existing, candidate company.Company) error {
			if existing.CNPJ == candidate.CNPJ {
				return company.ErrCNPJExists
			}
			if existing.Email != nil && candidate.Email != nil && strings.EqualFold(*existing.Email, *candidate.Email) {
				return company.ErrCompanyEmailExists
			}
			return nil
		},
	}}
}

func (r *companyRepository) List(ctx context.Context, filter company.CompanyFilter) ([]company.Company, int64, error) {
	search := ""
	if filter.Search != nil {
		search = strings.ToLower(*filter.Search)
	}

	items := r.table.filter(func(c company.Company) bool {
		if filter.Active != nil && c.Active != *filter.Active {
			return false
		}
		if search != "" && !strings.Contains(strings.ToLower(c.Name), search) && !strings.Contains(c.CNPJ, search) {
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

func (r *companyRepository) ExistsByCNPJ(ctx context.Context, cnpj string, excludeID *string) (bool, error) {
	return r.exists(excludeID, func(c company.Company) bool { return c.CNPJ == cnpj }), nil
}

func (r *companyRepository) ExistsByEmail(ctx context.Context, email string, excludeID *string) (bool, error) {
	return r.exists(excludeID, func(c company.Company) bool {
		return c.Email != nil && strings.EqualFold(*c.Email, email)
	}), nil
}

func (r *companyRepository) exists(excludeID *string, match func(company.Company) bool) bool {
	found := r.table.filter(func(c company.Company) bool {
		if excludeID != nil && c.ID == *excludeID {
			return false
		}
		return match(c)
	})
	return len(found) > 0
}
