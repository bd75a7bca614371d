package user

type Permission string

const (
	// Own clock events, absences and adjustment requests
	PermissionTimeRecordOwn Permission = "time_record.own"
	PermissionAbsenceOwn    Permission = "absence.own"
	PermissionAdjustmentOwn Permission = "adjustment.own"

	// Company-wide review
	PermissionTimeRecordManage Permission = "time_record.manage"
	PermissionAbsenceReview    Permission = "absence.review"
	PermissionAdjustmentReview Permission = "adjustment.review"
	PermissionReportsView      Permission = "reports.view"
	PermissionUserManage       Permission = "user.manage"

	// Tenants
	PermissionCompanyManage Permission = "company.manage"
)

var userPermissions = []Permission{
	PermissionTimeRecordOwn,
	PermissionAbsenceOwn,
	PermissionAdjustmentOwn,
}

var adminPermissions = append(append([]Permission{}, userPermissions...),
	PermissionTimeRecordManage,
	PermissionAbsenceReview,
	PermissionAdjustmentReview,
	PermissionReportsView,
	PermissionUserManage,
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleMaster: append(append([]Permission{}, adminPermissions...), PermissionCompanyManage),
	RoleAdmin:  adminPermissions,
	RoleUser:   userPermissions,
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	for _, p := range RolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}
