package auth

import "github.com/shelter-kit/shelter-service/internal/domain"

// Principal represents the authenticated caller, built once from token
// claims at request entry and never re-derived mid-request.
type Principal struct {
	UserID   string
	Username string
	Roles    []domain.Role
}

// HasRole reports whether the caller holds the given role.
func (p *Principal) HasRole(role domain.Role) bool {
	if p == nil {
		return false
	}
	for _, held := range p.Roles {
		if held == role {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether the caller holds at least one of the roles.
func (p *Principal) HasAnyRole(roles ...domain.Role) bool {
	for _, role := range roles {
		if p.HasRole(role) {
			return true
		}
	}
	return false
}

// CanModify is the shared ownership decision applied to resource updates and
// deletes: the owner may always act on their own resource, and holders of a
// privileged role may act regardless of ownership.
func CanModify(p *Principal, ownerID string, privileged ...domain.Role) bool {
	if p == nil {
		return false
	}
	if ownerID != "" && p.UserID == ownerID {
		return true
	}
	return p.HasAnyRole(privileged...)
}
