package model

import "strings"

// Role is the role a user signs in as.
type Role string

const (
	RoleUser  Role = "User"
	RoleAdmin Role = "Admin"
)

// ParseRole accepts the form values "User" and "Admin", case-insensitively.
func ParseRole(s string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "user":
		return RoleUser, true
	case "admin":
		return RoleAdmin, true
	default:
		return "", false
	}
}

// IsAdmin reports whether r grants the admin views.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}
