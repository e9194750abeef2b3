package constants

import "fmt"

const (
	RoleAnonymous = "anonymous"
	RoleMember    = "member"
	RoleStaff     = "staff"
)

// Role error templates
const (
	ErrOnlyStaffCanAccess   = "Only library staff may %s."
	ErrLoginRequiredForPath = "Log in to %s."
)

func RoleErrorStaff(action string) string {
	return fmt.Sprintf(ErrOnlyStaffCanAccess, action)
}

func RoleErrorLogin(action string) string {
	return fmt.Sprintf(ErrLoginRequiredForPath, action)
}

// ==========================
// ✅ Grouped Role Slices
// ==========================
var (
	AllRoles = []string{
		RoleAnonymous,
		RoleMember,
		RoleStaff,
	}

	AuthenticatedRoles = []string{
		RoleMember,
		RoleStaff,
	}

	StaffOnly = []string{
		RoleStaff,
	}
)
