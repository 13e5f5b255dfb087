package domain

import "strings"

type Role string

const (
	RoleAdmin        Role = "Admin"
	RoleFieldOfficer Role = "FieldOfficer"
	RoleCashier      Role = "Cashier"
	RoleManager      Role = "Manager"
)

var roles = []Role{RoleAdmin, RoleFieldOfficer, RoleCashier, RoleManager}

// Roles lists every role in a stable order.
func Roles() []Role {
	out := make([]Role, len(roles))
	copy(out, roles)
	return out
}

// ParseRole matches value case-insensitively against the closed role set.
func ParseRole(value string) (Role, error) {
	value = strings.TrimSpace(value)
	for _, r := range roles {
		if strings.EqualFold(value, string(r)) {
			return r, nil
		}
	}
	return "", ErrInvalidRole
}

// Landing names the workspace a role opens on after login.
func (r Role) Landing() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleFieldOfficer:
		return "field"
	case RoleCashier:
		return "cashier"
	case RoleManager:
		return "manager"
	default:
		return ""
	}
}
