package domain

// Role names a registered authorization role.
type Role string

const (
	RoleAdmin     Role = "Admin"
	RoleModerator Role = "Moderator"
	RoleUser      Role = "User"
)

// RoleNames converts a role slice to plain strings for token claims.
func RoleNames(roles []Role) []string {
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, string(role))
	}
	return names
}

// RolesFromNames converts claim strings back to roles.
func RolesFromNames(names []string) []Role {
	roles := make([]Role, 0, len(names))
	for _, name := range names {
		roles = append(roles, Role(name))
	}
	return roles
}
