package usecases

import (
	"github.com/nahanni/placekeeper/internal/core/domain"
)

// CulturalAccessPolicy decides create/read/update/delete access for
// restricted and unrestricted places. Restriction is a two-state machine
// (unrestricted <-> restricted) and every transition, in either direction,
// requires cultural authority.
type CulturalAccessPolicy struct{}

// CanRead reports whether the role may see the place at all. Restricted
// places are visible only to roles with cultural authority.
func (CulturalAccessPolicy) CanRead(role domain.Role, place *domain.Place) bool {
	if place == nil {
		return false
	}
	if !place.IsRestricted {
		return true
	}
	return role.HasCulturalAuthority()
}

// FilterVisible drops places the role may not see. List and search results
// omit restricted records silently; only a direct fetch by id signals a
// protocol violation.
func (p CulturalAccessPolicy) FilterVisible(role domain.Role, places []domain.Place) []domain.Place {
	visible := places[:0]
	for i := range places {
		if p.CanRead(role, &places[i]) {
			visible = append(visible, places[i])
		}
	}
	return visible
}

// AuthorizeCreate gates place creation. Creating a restricted place
// requires cultural authority; creating anything requires write access.
func (CulturalAccessPolicy) AuthorizeCreate(role domain.Role, restricted bool) error {
	if !role.CanWrite() {
		return domain.ErrInsufficientPermissions
	}
	if restricted && !role.HasCulturalAuthority() {
		return domain.ErrInsufficientPermissions
	}
	return nil
}

// AuthorizeUpdate gates an update against the record's current restriction
// state and the state the patch asks for. Once a place is restricted,
// every modification to it requires cultural authority, including clearing
// the flag and including changes to unrelated fields.
func (CulturalAccessPolicy) AuthorizeUpdate(role domain.Role, current *domain.Place, patch domain.PlacePatch) error {
	if !role.CanWrite() {
		return domain.ErrInsufficientPermissions
	}
	if current.IsRestricted && !role.HasCulturalAuthority() {
		return domain.ErrCulturalProtocolViolation
	}
	if patch.IsRestricted != nil && *patch.IsRestricted != current.IsRestricted && !role.HasCulturalAuthority() {
		return domain.ErrInsufficientPermissions
	}
	return nil
}

// AuthorizeDelete gates deletion. Only admin or elder may delete,
// regardless of the record's restriction state.
func (CulturalAccessPolicy) AuthorizeDelete(role domain.Role) error {
	if !role.HasCulturalAuthority() {
		return domain.ErrInsufficientPermissions
	}
	return nil
}
