package usecases_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nahanni/placekeeper/internal/core/domain"
	"github.com/nahanni/placekeeper/internal/core/usecases"
)

func boolPtr(b bool) *bool { return &b }

func TestCanRead(t *testing.T) {
	policy := usecases.CulturalAccessPolicy{}
	open := &domain.Place{Name: "Fish Camp"}
	restricted := &domain.Place{Name: "Sacred Mountain", IsRestricted: true}

	tests := []struct {
		role  domain.Role
		place *domain.Place
		want  bool
	}{
		{domain.RoleViewer, open, true},
		{domain.RoleEditor, open, true},
		{domain.RoleAdmin, open, true},
		{domain.RoleElder, open, true},
		{domain.RoleViewer, restricted, false},
		{domain.RoleEditor, restricted, false},
		{domain.RoleAdmin, restricted, true},
		{domain.RoleElder, restricted, true},
	}
	for _, tt := range tests {
		got := policy.CanRead(tt.role, tt.place)
		assert.Equal(t, tt.want, got, "role %s place %s", tt.role, tt.place.Name)
	}

	assert.False(t, policy.CanRead(domain.RoleAdmin, nil), "nil place is never readable")
}

func TestAuthorizeCreate(t *testing.T) {
	policy := usecases.CulturalAccessPolicy{}

	tests := []struct {
		role       domain.Role
		restricted bool
		wantErr    error
	}{
		{domain.RoleViewer, false, domain.ErrInsufficientPermissions},
		{domain.RoleViewer, true, domain.ErrInsufficientPermissions},
		{domain.RoleEditor, false, nil},
		{domain.RoleEditor, true, domain.ErrInsufficientPermissions},
		{domain.RoleAdmin, true, nil},
		{domain.RoleElder, true, nil},
	}
	for _, tt := range tests {
		err := policy.AuthorizeCreate(tt.role, tt.restricted)
		assert.ErrorIs(t, err, tt.wantErr, "role %s restricted %v", tt.role, tt.restricted)
	}
}

func TestAuthorizeUpdate(t *testing.T) {
	policy := usecases.CulturalAccessPolicy{}
	open := &domain.Place{Name: "Fish Camp"}
	restricted := &domain.Place{Name: "Sacred Mountain", IsRestricted: true}
	rename := domain.PlacePatch{Name: strPtr("New Name")}
	restrict := domain.PlacePatch{IsRestricted: boolPtr(true)}
	unrestrict := domain.PlacePatch{IsRestricted: boolPtr(false)}

	tests := []struct {
		name    string
		role    domain.Role
		current *domain.Place
		patch   domain.PlacePatch
		wantErr error
	}{
		{"viewer cannot write", domain.RoleViewer, open, rename, domain.ErrInsufficientPermissions},
		{"editor renames open place", domain.RoleEditor, open, rename, nil},
		{"editor cannot touch restricted place", domain.RoleEditor, restricted, rename, domain.ErrCulturalProtocolViolation},
		{"editor cannot restrict", domain.RoleEditor, open, restrict, domain.ErrInsufficientPermissions},
		{"editor may re-assert current flag", domain.RoleEditor, open, unrestrict, nil},
		{"elder restricts", domain.RoleElder, open, restrict, nil},
		{"elder unrestricts", domain.RoleElder, restricted, unrestrict, nil},
		{"admin edits restricted place", domain.RoleAdmin, restricted, rename, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := policy.AuthorizeUpdate(tt.role, tt.current, tt.patch)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAuthorizeDelete(t *testing.T) {
	policy := usecases.CulturalAccessPolicy{}

	assert.ErrorIs(t, policy.AuthorizeDelete(domain.RoleViewer), domain.ErrInsufficientPermissions)
	assert.ErrorIs(t, policy.AuthorizeDelete(domain.RoleEditor), domain.ErrInsufficientPermissions)
	assert.NoError(t, policy.AuthorizeDelete(domain.RoleAdmin))
	assert.NoError(t, policy.AuthorizeDelete(domain.RoleElder))
}

func TestFilterVisible(t *testing.T) {
	policy := usecases.CulturalAccessPolicy{}
	places := []domain.Place{
		{ID: 1, Name: "Fish Camp"},
		{ID: 2, Name: "Sacred Mountain", IsRestricted: true},
		{ID: 3, Name: "Old Portage"},
	}

	visible := policy.FilterVisible(domain.RoleViewer, append([]domain.Place(nil), places...))
	assert.Len(t, visible, 2)
	for _, p := range visible {
		assert.False(t, p.IsRestricted)
	}

	all := policy.FilterVisible(domain.RoleElder, append([]domain.Place(nil), places...))
	assert.Len(t, all, 3)
}
