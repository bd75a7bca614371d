package company

import "errors"

var (
	ErrCompanyNotFound     = errors.New("company not found")
	ErrCNPJExists          = errors.New("cnpj already registered")
	ErrCompanyEmailExists  = errors.New("company email already registered")
	ErrCompanyHasUsers     = errors.New("company cannot be deleted while it has users")
	ErrCompanyInactive     = errors.New("company is inactive")
	ErrNoCompanyAssigned   = errors.New("user is not assigned to a company")
	ErrMaxUsersBelowActual = errors.New("max_users cannot be lower than the current number of users")
)
