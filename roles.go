package console

// Role is the account role assigned by the backend
type Role = string

const (
	// RoleAdmin has full access and no sector binding
	RoleAdmin Role = "admin"
	// RoleManager manages a sector (i.e. secrets, schedules)
	RoleManager Role = "manager"
	// RoleOperator runs automations inside a sector
	RoleOperator Role = "operator"
)

// IsValid checks if the role is one of the predefined valid roles
func IsValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleManager, RoleOperator:
		return true
	default:
		return false
	}
}

// RequiresSector reports whether accounts with this role must be bound to a
// sector. Admin accounts are global; everyone else belongs to exactly one.
func RequiresSector(r Role) bool {
	switch r {
	case RoleManager, RoleOperator:
		return true
	default:
		return false
	}
}

// AllRoles returns the closed role set in privilege order.
func AllRoles() []Role {
	return []Role{RoleOperator, RoleManager, RoleAdmin}
}
