package models

import "strings"

// Role is one of the fixed staff roles carried in the access token.
type Role string

const (
	RoleCEO     Role = "CEO"
	RoleAdmin   Role = "Admin"
	RoleTeacher Role = "Teacher"
)

// AllRoles lists every known role in display order.
var AllRoles = []Role{RoleCEO, RoleAdmin, RoleTeacher}

// ParseRole matches a role name case-insensitively.
func ParseRole(s string) (Role, bool) {
	for _, r := range AllRoles {
		if strings.EqualFold(string(r), strings.TrimSpace(s)) {
			return r, true
		}
	}
	return "", false
}

// Roles is a small set of roles kept as an ordered, duplicate-free slice.
type Roles []Role

// NewRoles returns the known roles among names, deduplicated, in AllRoles order.
func NewRoles(names ...string) Roles {
	seen := make(map[Role]bool, len(names))
	for _, n := range names {
		if r, ok := ParseRole(n); ok {
			seen[r] = true
		}
	}
	out := make(Roles, 0, len(seen))
	for _, r := range AllRoles {
		if seen[r] {
			out = append(out, r)
		}
	}
	return out
}

func (rs Roles) Has(role Role) bool {
	for _, r := range rs {
		if r == role {
			return true
		}
	}
	return false
}

// Intersects reports whether rs and other share at least one role.
func (rs Roles) Intersects(other Roles) bool {
	for _, r := range other {
		if rs.Has(r) {
			return true
		}
	}
	return false
}

func (rs Roles) String() string {
	parts := make([]string, len(rs))
	for i, r := range rs {
		parts[i] = string(r)
	}
	return strings.Join(parts, ", ")
}
