package user

import (
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/crud"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"
)

// UserResponse represents user data in API responses
type UserResponse struct {
	ID              string  `json:"id"`
	CompanyID       *string `json:"company_id"`
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	Role            string  `json:"role"`
	IsAdmin         bool    `json:"is_admin"`
	HireDate        *string `json:"hire_date,omitempty"`
	DailyWorkHours  int     `json:"daily_work_hours"`
	LunchDuration   int     `json:"lunch_duration"`
	ExpectedMinutes int     `json:"expected_minutes"`
	Active          bool    `json:"active"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

func NewUserResponse(u User) UserResponse {
	resp := UserResponse{
		ID:              u.ID,
		CompanyID:       u.CompanyID,
		Name:            u.Name,
		Email:           u.Email,
		Role:            string(u.Role),
		IsAdmin:         u.IsAdmin(),
		DailyWorkHours:  u.DailyWorkHours,
		LunchDuration:   u.LunchDuration,
		ExpectedMinutes: u.ExpectedMinutes(),
		Active:          u.Active,
		CreatedAt:       u.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       u.UpdatedAt.Format(time.RFC3339),
	}
	if u.HireDate != nil {
		d := u.HireDate.Format("2006-01-02")
		resp.HireDate = &d
	}
	return resp
}

// CreateUserRequest represents request to create a new user
type CreateUserRequest struct {
	CompanyID      *string `json:"company_id,omitempty"`
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Password       string  `json:"password"`
	Role           string  `json:"role"`
	HireDate       *string `json:"hire_date,omitempty"`
	DailyWorkHours *int    `json:"daily_work_hours,omitempty"`
	LunchDuration  *int    `json:"lunch_duration,omitempty"`
	Active         *bool   `json:"active,omitempty"`
}

func (r *CreateUserRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	} else if validator.Length(r.Name) > 255 {
		errs.Add("name", "name must not exceed 255 characters")
	}

	if validator.IsEmpty(r.Email) {
		errs.Add("email", "email is required")
	} else if !validator.IsValidEmail(r.Email) {
		errs.Add("email", "invalid email format")
	}

	if validator.IsEmpty(r.Password) {
		errs.Add("password", "password is required")
	} else if len(r.Password) < 8 {
		errs.Add("password", "password must be at least 8 characters")
	}

	if r.Role == "" {
		r.Role = string(RoleUser)
	} else if !Role(r.Role).IsValid() {
		errs.Add("role", "role must be one of master, admin, user")
	}

	if r.CompanyID != nil && !validator.IsValidUUID(*r.CompanyID) {
		errs.Add("company_id", "invalid company_id format")
	}
	if r.HireDate != nil {
		if _, ok := validator.IsValidDate(*r.HireDate); !ok {
			errs.Add("hire_date", "hire_date must be in YYYY-MM-DD format")
		}
	}
	validateWorkday(&errs, r.DailyWorkHours, r.LunchDuration)

	return errs.OrNil()
}

// UpdateUserRequest represents request to update user
type UpdateUserRequest struct {
	Name           *string `json:"name,omitempty"`
	Email          *string `json:"email,omitempty"`
	Password       *string `json:"password,omitempty"`
	Role           *string `json:"role,omitempty"`
	HireDate       *string `json:"hire_date,omitempty"`
	DailyWorkHours *int    `json:"daily_work_hours,omitempty"`
	LunchDuration  *int    `json:"lunch_duration,omitempty"`
	Active         *bool   `json:"active,omitempty"`
}

func (r *UpdateUserRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil && (validator.IsEmpty(*r.Name) || validator.Length(*r.Name) > 255) {
		errs.Add("name", "name must be between 1 and 255 characters")
	}
	if r.Email != nil && !validator.IsValidEmail(*r.Email) {
		errs.Add("email", "invalid email format")
	}
	if r.Password != nil && len(*r.Password) < 8 {
		errs.Add("password", "password must be at least 8 characters")
	}
	if r.Role != nil && !Role(*r.Role).IsValid() {
		errs.Add("role", "role must be one of master, admin, user")
	}
	if r.HireDate != nil {
		if _, ok := validator.IsValidDate(*r.HireDate); !ok {
			errs.Add("hire_date", "hire_date must be in YYYY-MM-DD format")
		}
	}
	validateWorkday(&errs, r.DailyWorkHours, r.LunchDuration)

	return errs.OrNil()
}

func validateWorkday(errs *validator.ValidationErrors, dailyHours, lunch *int) {
	if dailyHours != nil && (*dailyHours < 1 || *dailyHours > 24) {
		errs.Add("daily_work_hours", "daily_work_hours must be between 1 and 24")
	}
	if lunch != nil && (*lunch < 0 || *lunch > 240) {
		errs.Add("lunch_duration", "lunch_duration must be between 0 and 240 minutes")
	}
}

type UserFilter struct {
	CompanyID *string `json:"company_id,omitempty"`
	Role      *string `json:"role,omitempty"`
	Active    *bool   `json:"active,omitempty"`
	Search    *string `json:"search,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *UserFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs.Add("page", "page must be a positive number")
	}
	if f.Limit < 0 {
		errs.Add("limit", "limit must be a positive number")
	}
	if f.Role != nil && !Role(*f.Role).IsValid() {
		errs.Add("role", "role must be one of master, admin, user")
	}
	if f.CompanyID != nil && !validator.IsValidUUID(*f.CompanyID) {
		errs.Add("company_id", "invalid company_id format")
	}

	return errs.OrNil()
}

func (f UserFilter) PageRequest() crud.Page {
	return crud.Page{Page: f.Page, Limit: f.Limit}.Normalize(20, 100)
}

type ListUserResponse struct {
	TotalCount int64          `json:"total_count"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
	Users      []UserResponse `json:"users"`
}
