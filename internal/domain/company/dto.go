package company

import (
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/crud"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"
)

type CompanyResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	CNPJ      string  `json:"cnpj"`
	Email     *string `json:"email,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Address   *string `json:"address,omitempty"`
	City      *string `json:"city,omitempty"`
	State     *string `json:"state,omitempty"`
	ZipCode   *string `json:"zip_code,omitempty"`
	MaxUsers  int     `json:"max_users"`
	Active    bool    `json:"active"`
	UserCount *int64  `json:"user_count,omitempty"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

func NewCompanyResponse(c Company) CompanyResponse {
	return CompanyResponse{
		ID:        c.ID,
		Name:      c.Name,
		CNPJ:      c.CNPJ,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		City:      c.City,
		State:     c.State,
		ZipCode:   c.ZipCode,
		MaxUsers:  c.MaxUsers,
		Active:    c.Active,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
		UpdatedAt: c.UpdatedAt.Format(time.RFC3339),
	}
}

type CreateCompanyRequest struct {
	Name     string  `json:"name"`
	CNPJ     string  `json:"cnpj"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Address  *string `json:"address,omitempty"`
	City     *string `json:"city,omitempty"`
	State    *string `json:"state,omitempty"`
	ZipCode  *string `json:"zip_code,omitempty"`
	MaxUsers *int    `json:"max_users,omitempty"`
	Active   *bool   `json:"active,omitempty"`
}

func (r *CreateCompanyRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	} else if validator.Length(r.Name) > 255 {
		errs.Add("name", "name must not exceed 255 characters")
	}

	if validator.IsEmpty(r.CNPJ) {
		errs.Add("cnpj", "cnpj is required")
	} else if !validator.IsValidCNPJ(r.CNPJ) {
		errs.Add("cnpj", "cnpj must have exactly 14 digits")
	}

	validateContact(&errs, r.Email, r.Phone, r.City, r.State, r.ZipCode)

	if r.MaxUsers != nil && *r.MaxUsers < 1 {
		errs.Add("max_users", "max_users must be at least 1")
	}

	return errs.OrNil()
}

type UpdateCompanyRequest struct {
	Name     *string `json:"name,omitempty"`
	CNPJ     *string `json:"cnpj,omitempty"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Address  *string `json:"address,omitempty"`
	City     *string `json:"city,omitempty"`
	State    *string `json:"state,omitempty"`
	ZipCode  *string `json:"zip_code,omitempty"`
	MaxUsers *int    `json:"max_users,omitempty"`
	Active   *bool   `json:"active,omitempty"`
}

func (r *UpdateCompanyRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil && (validator.IsEmpty(*r.Name) || validator.Length(*r.Name) > 255) {
		errs.Add("name", "name must be between 1 and 255 characters")
	}
	if r.CNPJ != nil && !validator.IsValidCNPJ(*r.CNPJ) {
		errs.Add("cnpj", "cnpj must have exactly 14 digits")
	}

	validateContact(&errs, r.Email, r.Phone, r.City, r.State, r.ZipCode)

	if r.MaxUsers != nil && *r.MaxUsers < 1 {
		errs.Add("max_users", "max_users must be at least 1")
	}

	return errs.OrNil()
}

func validateContact(errs *validator.ValidationErrors, email, phone, city, state, zip *string) {
	if email != nil && !validator.IsValidEmail(*email) {
		errs.Add("email", "invalid email format")
	}
	if phone != nil && validator.Length(*phone) > 20 {
		errs.Add("phone", "phone must not exceed 20 characters")
	}
	if city != nil && validator.Length(*city) > 100 {
		errs.Add("city", "city must not exceed 100 characters")
	}
	if state != nil && !validator.IsValidState(*state) {
		errs.Add("state", "state must be a two-letter uppercase code")
	}
	if zip != nil && !validator.IsValidZipCode(*zip) {
		errs.Add("zip_code", "zip_code must have exactly 8 digits")
	}
}

type CompanyFilter struct {
	Search *string `json:"search,omitempty"`
	Active *bool   `json:"active,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f CompanyFilter) PageRequest() crud.Page {
	return crud.Page{Page: f.Page, Limit: f.Limit}.Normalize(15, 100)
}

type ListCompanyResponse struct {
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
	Companies  []CompanyResponse `json:"companies"`
}
