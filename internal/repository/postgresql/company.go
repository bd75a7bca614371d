package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/database"
)

type companyRepositoryImpl struct {
	db *database.DB
}

func NewCompanyRepository(db *database.DB) company.CompanyRepository {
	return &companyRepositoryImpl{db: db}
}

const companyColumns = `id, name, cnpj, email, phone, address, city, state, zip_code, max_users, active, created_at, updated_at`

func scanCompany(row scanner) (company.Company, error) {
	var c company.Company
	err := row.Scan(&c.ID, &c.Name, &c.CNPJ, &c.Email, &c.Phone, &c.Address, &c.City, &c.State, &c.ZipCode,
		&c.MaxUsers, &c.Active, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func companyWriteError(err error) error {
	switch constraint, ok := uniqueConstraint(err); {
	case ok && constraint == "companies_cnpj_key":
		return company.ErrCNPJExists
	case ok && constraint == "companies_email_key":
		return company.ErrCompanyEmailExists
	}
	return err
}

// Create implements company.CompanyRepository.
func (r *companyRepositoryImpl) Create(ctx context.Context, c company.Company) (company.Company, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO companies (` + companyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + companyColumns

	created, err := scanCompany(q.QueryRow(ctx, query,
		c.ID, c.Name, c.CNPJ, c.Email, c.Phone, c.Address, c.City, c.State, c.ZipCode,
		c.MaxUsers, c.Active, c.CreatedAt, c.UpdatedAt))
	if err != nil {
		return company.Company{}, companyWriteError(fmt.Errorf("failed to create company: %w", err))
	}
	return created, nil
}

// GetByID implements company.CompanyRepository.
func (r *companyRepositoryImpl) GetByID(ctx context.Context, id string) (company.Company, error) {
	return queryOne(ctx, GetQuerier(ctx, r.db), company.ErrCompanyNotFound, scanCompany,
		`SELECT `+companyColumns+` FROM companies WHERE id = $1`, id)
}

// Update implements company.CompanyRepository.
func (r *companyRepositoryImpl) Update(ctx context.Context, c company.Company) (company.Company, error) {
	query := `
		UPDATE companies
		SET name = $2, cnpj = $3, email = $4, phone = $5, address = $6, city = $7, state = $8,
			zip_code = $9, max_users = $10, active = $11, updated_at = $12
		WHERE id = $1
		RETURNING ` + companyColumns

	updated, err := queryOne(ctx, GetQuerier(ctx, r.db), company.ErrCompanyNotFound, scanCompany, query,
		c.ID, c.Name, c.CNPJ, c.Email, c.Phone, c.Address, c.City, c.State, c.ZipCode,
		c.MaxUsers, c.Active, c.UpdatedAt)
	if err != nil {
		return company.Company{}, companyWriteError(err)
	}
	return updated, nil
}

// Delete implements company.CompanyRepository.
func (r *companyRepositoryImpl) Delete(ctx context.Context, id string) error {
	return execOne(ctx, GetQuerier(ctx, r.db), company.ErrCompanyNotFound, `DELETE FROM companies WHERE id = $1`, id)
}

// List implements company.CompanyRepository.
func (r *companyRepositoryImpl) List(ctx context.Context, filter company.CompanyFilter) ([]company.Company, int64, error) {
	q := GetQuerier(ctx, r.db)

	var w where
	if filter.Search != nil && *filter.Search != "" {
		w.add("(name ILIKE $%[1]d OR cnpj ILIKE $%[1]d)", "%"+*filter.Search+"%")
	}
	if filter.Active != nil {
		w.add("active = $%d", *filter.Active)
	}

	total, err := count(ctx, q, `SELECT COUNT(*) FROM companies`+w.String(), w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count companies: %w", err)
	}

	query := `SELECT ` + companyColumns + ` FROM companies` + w.String() + ` ORDER BY name ASC, id ASC`
	query += w.paginate(filter.PageRequest())

	companies, err := queryAll(ctx, q, scanCompany, query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list companies: %w", err)
	}
	return companies, total, nil
}

// ExistsByCNPJ implements company.CompanyRepository.
func (r *companyRepositoryImpl) ExistsByCNPJ(ctx context.Context, cnpj string, excludeID *string) (bool, error) {
	return r.exists(ctx, "cnpj", cnpj, excludeID)
}

// ExistsByEmail implements company.CompanyRepository.
func (r *companyRepositoryImpl) ExistsByEmail(ctx context.Context, email string, excludeID *string) (bool, error) {
	return r.exists(ctx, "email", email, excludeID)
}

func (r *companyRepositoryImpl) exists(ctx context.Context, column, value string, excludeID *string) (bool, error) {
	var w where
	w.add(column+" = $%d", value)
	if excludeID != nil {
		w.add("id <> $%d", *excludeID)
	}

	var exists bool
	err := GetQuerier(ctx, r.db).QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM companies`+w.String()+`)`, w.args...).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check company %s: %w", column, err)
	}
	return exists, nil
}
