package domain

// Principal is the acting identity resolved per request from a verified
// token. It is transient: never stored, never shared across requests.
type Principal struct {
	UserID string
	Roles  Roles
}

// CanChangeRole is the access policy for role mutations: only a principal
// holding the admin role may change any user's role set.
//
// This is the only service-level policy gate: username, password and image
// edits are open to any authenticated principal. Administrative routes are
// additionally gated at the transport layer.
func (p Principal) CanChangeRole() bool {
	return p.Roles.Contains(RoleAdmin)
}
