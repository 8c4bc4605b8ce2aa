package domain

type Role string

const (
	// Standard users can read their own profile and, once active, the user directory.
	RoleStandard Role = "standard"
	// Admins additionally see the full user listing.
	RoleAdmin Role = "admin"
)

func IsValidRole(r string) bool {
	return r == string(RoleStandard) || r == string(RoleAdmin)
}

// ParseRole falls back to RoleStandard for unknown input.
func ParseRole(r string) Role {
	if IsValidRole(r) {
		return Role(r)
	}
	return RoleStandard
}
