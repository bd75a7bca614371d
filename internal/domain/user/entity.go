package user

import "time"

type Role string

const (
	RoleMaster Role = "master" // Platform administrator - manages companies
	RoleAdmin  Role = "admin"  // Company administrator - reviews requests
	RoleUser   Role = "user"   // Regular employee
)

const (
	DefaultDailyWorkHours = 8
	DefaultLunchDuration  = 60
)

func (r Role) IsValid() bool {
	switch r {
	case RoleMaster, RoleAdmin, RoleUser:
		return true
	}
	return false
}

type User struct {
	ID             string
	CompanyID      *string
	Name           string
	Email          string
	PasswordHash   string
	Role           Role
	HireDate       *time.Time
	DailyWorkHours int
	LunchDuration  int
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsAdmin reports the admin capability; masters have it too.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.Role == RoleMaster
}

func (u *User) IsMaster() bool {
	return u.Role == RoleMaster
}

// ExpectedMinutes is the default expected work time for one day.
func (u *User) ExpectedMinutes() int {
	return u.DailyWorkHours * 60
}

// Actor returns the identity used for authorization decisions.
func (u *User) Actor() Actor {
	return Actor{UserID: u.ID, CompanyID: u.CompanyID, Role: u.Role}
}

// Actor is the authenticated caller of a service operation.
type Actor struct {
	UserID    string
	CompanyID *string
	Role      Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin || a.Role == RoleMaster
}

func (a Actor) IsMaster() bool {
	return a.Role == RoleMaster
}

// CanAccessCompany reports whether the actor may read or manage data that
// belongs to companyID. Masters reach every tenant.
func (a Actor) CanAccessCompany(companyID *string) bool {
	if a.IsMaster() {
		return true
	}
	if a.CompanyID == nil || companyID == nil {
		return false
	}
	return *a.CompanyID == *companyID
}

// CanManage reports whether the actor may act on records owned by owner:
// the owner itself, or an admin of the owner's company.
func (a Actor) CanManage(owner User) bool {
	if a.UserID == owner.ID {
		return true
	}
	return a.IsAdmin() && a.CanAccessCompany(owner.CompanyID)
}
