// Copyright (c) 2025 QueryForge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"queryforge/cli/internal/session"
)

func TestAllowed(t *testing.T) {
	tests := []struct {
		name  string
		role  string
		perms []string
		req   Requirement
		want  bool
	}{
		{
			name: "developer denied an admin-only surface",
			role: RoleDeveloper,
			req:  Requirement{Roles: []string{RoleAdmin}},
			want: false,
		},
		{
			name: "admin allowed when any listed role matches",
			role: RoleAdmin,
			req:  Requirement{Roles: []string{RoleAdmin, RoleDeveloper}},
			want: true,
		},
		{
			name:  "require-all permissions denied on partial hold",
			role:  RoleDeveloper,
			perms: []string{"x"},
			req:   Requirement{Permissions: []string{"x", "y"}, RequireAll: true},
			want:  false,
		},
		{
			name:  "any-of permissions allowed on partial hold",
			role:  RoleDeveloper,
			perms: []string{"x"},
			req:   Requirement{Permissions: []string{"x", "y"}},
			want:  true,
		},
		{
			name: "no requirements pass trivially",
			role: RoleBusiness,
			req:  Requirement{},
			want: true,
		},
		{
			name:  "role and permissions are ANDed",
			role:  RoleAdmin,
			perms: []string{"manage_users"},
			req:   Requirement{Roles: []string{RoleAdmin}, Permissions: []string{"manage_models"}},
			want:  false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Allowed(tt.role, tt.perms, tt.req))
		})
	}
}

func TestGuardRequiresSessionBeforeRoleCheck(t *testing.T) {
	store := session.NewMemory()
	g := NewGuard(store)
	req := Requirement{Roles: []string{RoleAdmin}}

	err := g.Check(RoleAdmin, nil, req)
	assert.ErrorIs(t, err, ErrLoginRequired, "anonymous users get a login prompt, not a denial")

	require.NoError(t, store.SetToken("tok"))
	assert.NoError(t, g.Check(RoleAdmin, nil, req))
	assert.ErrorIs(t, g.Check(RoleDeveloper, nil, req), ErrForbidden)
}
