package entity

// Role identifies the privilege class of an actor. Roles are assigned by
// the surrounding application (session/auth layer) and handed to this
// service on every call; the ledger never stores them.
type Role string

const (
	// RoleAdmin is held by administrators: full ledger access including rollback.
	RoleAdmin Role = "admin"
	// RoleSystem is held by internal feature code (event check-in, report
	// approval, orientation outcomes) that awards or deducts on behalf of users.
	RoleSystem Role = "system"
	// RoleMember is an ordinary student or tutor account with read-only
	// access to their own balance.
	RoleMember Role = "member"
)

// Actor is the caller identity supplied by the external auth collaborator.
type Actor struct {
	ID   uint64
	Role Role
}

// IsValidRole reports whether the given string is a known role.
func IsValidRole(role string) bool {
	switch Role(role) {
	case RoleAdmin, RoleSystem, RoleMember:
		return true
	}
	return false
}
