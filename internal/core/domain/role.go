package domain

// Role is the single coarse-grained classification of a user.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// DefaultRole is assigned at registration.
const DefaultRole = RoleUser

// Permission names an action a role may perform.
type Permission string

const (
	PermDeleteUsers Permission = "delete users"
	PermViewUsers   Permission = "view users"
)

// rolePermissions is the full permission table. There are no per-user
// overrides.
var rolePermissions = map[Role][]Permission{
	RoleAdmin: {PermDeleteUsers, PermViewUsers},
	RoleUser:  {},
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, ok := rolePermissions[r]
	return ok
}

// Can reports whether the role grants perm.
func (r Role) Can(perm Permission) bool {
	for _, p := range rolePermissions[r] {
		if p == perm {
			return true
		}
	}
	return false
}

// Permissions returns a copy of the permissions granted to r.
func (r Role) Permissions() []Permission {
	perms := rolePermissions[r]
	out := make([]Permission, len(perms))
	copy(out, perms)
	return out
}

func (r Role) String() string {
	return string(r)
}
