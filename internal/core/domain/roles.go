package domain

import "fmt"

// Role is a caller's role within a community. General privilege is ordered
// viewer < editor < admin. Elder sits outside that ordering: it carries
// cultural authority equal to admin for restricted-place concerns, whatever
// its general privilege would otherwise be. Code must never compare roles
// ordinally; use the capability helpers instead.
type Role string

const (
	RoleViewer Role = "viewer"
	RoleEditor Role = "editor"
	RoleAdmin  Role = "admin"
	RoleElder  Role = "elder"
)

// ParseRole converts a wire value into a Role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleViewer, RoleEditor, RoleAdmin, RoleElder:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// HasCulturalAuthority reports whether the role may see and manage
// culturally restricted places.
func (r Role) HasCulturalAuthority() bool {
	return r == RoleAdmin || r == RoleElder
}

// CanWrite reports whether the role may create or modify places at all.
// Viewers are read-only. Elders can always write: cultural authority
// implies write access to cultural records.
func (r Role) CanWrite() bool {
	return r == RoleEditor || r == RoleAdmin || r == RoleElder
}

// Caller is the already-authenticated request context handed to the core
// by the transport layer.
type Caller struct {
	UserID int64
	Role   Role
}
