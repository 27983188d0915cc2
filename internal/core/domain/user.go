package domain

// Role is one of the closed set of roles a user can hold.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Roles is a user's role set. Current business rules only ever populate a
// single role, but the set representation is kept for forward compatibility;
// callers must not assume a singleton.
type Roles []Role

// Contains reports whether the set holds the given role.
func (rs Roles) Contains(role Role) bool {
	for _, r := range rs {
		if r == role {
			return true
		}
	}
	return false
}

// Strings converts the role set to plain strings for token claims.
func (rs Roles) Strings() []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = string(r)
	}
	return out
}

// RolesFromStrings rebuilds a role set from claim strings, dropping
// anything outside the closed enumeration.
func RolesFromStrings(ss []string) Roles {
	out := make(Roles, 0, len(ss))
	for _, s := range ss {
		if r := Role(s); r.IsValid() {
			out = append(out, r)
		}
	}
	return out
}

// User models an account. The password is only ever stored hashed.
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Roles        Roles  `json:"roles"`
	Image        string `json:"image"`
}
