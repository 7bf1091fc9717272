package domain_test

import (
	"testing"

	"github.com/nahanni/placekeeper/internal/core/domain"
)

func TestParseRole(t *testing.T) {
	for _, s := range []string{"viewer", "editor", "admin", "elder"} {
		role, err := domain.ParseRole(s)
		if err != nil {
			t.Errorf("ParseRole(%q): %v", s, err)
		}
		if string(role) != s {
			t.Errorf("ParseRole(%q) = %q", s, role)
		}
	}

	for _, s := range []string{"", "Viewer", "superuser", "ELDER"} {
		if _, err := domain.ParseRole(s); err == nil {
			t.Errorf("ParseRole(%q): expected error", s)
		}
	}
}

func TestRoleCapabilities(t *testing.T) {
	tests := []struct {
		role      domain.Role
		authority bool
		canWrite  bool
	}{
		{domain.RoleViewer, false, false},
		{domain.RoleEditor, false, true},
		{domain.RoleAdmin, true, true},
		{domain.RoleElder, true, true},
	}
	for _, tt := range tests {
		if got := tt.role.HasCulturalAuthority(); got != tt.authority {
			t.Errorf("%s.HasCulturalAuthority() = %v, want %v", tt.role, got, tt.authority)
		}
		if got := tt.role.CanWrite(); got != tt.canWrite {
			t.Errorf("%s.CanWrite() = %v, want %v", tt.role, got, tt.canWrite)
		}
	}
}
