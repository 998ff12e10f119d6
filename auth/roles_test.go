package auth_test

import (
	"testing"

	"github.com/icetlab/assettrack/auth"
	"github.com/stretchr/testify/assert"
)

func TestUserRole_IsValid(t *testing.T) {
	assert.True(t, auth.RoleViewer.IsValid())
	assert.True(t, auth.RoleAdmin.IsValid())
	assert.False(t, auth.UserRole("owner").IsValid())
	assert.False(t, auth.UserRole("").IsValid())
	assert.False(t, auth.UserRole("Admin").IsValid())
}

func TestUserRole_IsAtLeast(t *testing.T) {
	tests := []struct {
		name string
		role auth.UserRole
		min  auth.UserRole
		want bool
	}{
		{"admin meets admin", auth.RoleAdmin, auth.RoleAdmin, true},
		{"admin meets viewer", auth.RoleAdmin, auth.RoleViewer, true},
		{"viewer meets viewer", auth.RoleViewer, auth.RoleViewer, true},
		{"viewer does not meet admin", auth.RoleViewer, auth.RoleAdmin, false},
		{"unknown role fails closed", auth.UserRole("owner"), auth.RoleViewer, false},
		{"unknown minimum fails closed", auth.RoleAdmin, auth.UserRole("owner"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.role.IsAtLeast(tt.min))
		})
	}
}

func TestParseRole(t *testing.T) {
	role, ok := auth.ParseRole("admin")
	assert.True(t, ok)
	assert.Equal(t, auth.RoleAdmin, role)

	role, ok = auth.ParseRole("viewer")
	assert.True(t, ok)
	assert.Equal(t, auth.RoleViewer, role)

	_, ok = auth.ParseRole("superuser")
	assert.False(t, ok)
}
