package user

import "errors"

var (
	ErrUserNotFound            = errors.New("user not found")
	ErrUserEmailExists         = errors.New("email already registered")
	ErrUserInactive            = errors.New("user is inactive")
	ErrUserLimitExceeded       = errors.New("user limit exceeded")
	ErrCompanyUserLimitReached = errors.New("company has reached its maximum number of users")
	ErrAdminPrivilegeRequired  = errors.New("admin privilege required")
	ErrMasterPrivilegeRequired = errors.New("master privilege required")
	ErrForeignCompany          = errors.New("user belongs to another company")
	ErrCannotDeleteSelf        = errors.New("you cannot delete your own account")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
)
