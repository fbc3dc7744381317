// Copyright (c) 2025 QueryForge
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package access decides whether a user may reach a protected command or
// admin surface. Decisions are pure functions of the user snapshot held at
// login; the backend re-checks everything server-side, so a wrong local
// answer degrades UX, never security.
package access

// Roles known to the backend.
const (
	RoleAdmin     = "Admin"
	RoleDeveloper = "Developer"
	RoleBusiness  = "Business User"
)

// Requirement describes what a protected surface demands. Empty slices mean
// "no requirement of that kind" and pass trivially.
type Requirement struct {
	Roles       []string
	Permissions []string
	// RequireAll switches the permission check from any-of to superset,
	// and the role check to "every listed role matches".
	RequireAll bool
}

// Allowed is the gate decision: the logical AND of the role check and the
// permission check. Pure and side-effect free, safe to call per render.
func Allowed(role string, permissions []string, req Requirement) bool {
	return roleAllowed(role, req) && permissionsAllowed(permissions, req)
}

func roleAllowed(role string, req Requirement) bool {
	if len(req.Roles) == 0 {
		return true
	}
	if req.RequireAll {
		for _, r := range req.Roles {
			if r != role {
				return false
			}
		}
		return true
	}
	for _, r := range req.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func permissionsAllowed(permissions []string, req Requirement) bool {
	if len(req.Permissions) == 0 {
		return true
	}
	held := make(map[string]struct{}, len(permissions))
	for _, p := range permissions {
		held[p] = struct{}{}
	}
	if req.RequireAll {
		for _, p := range req.Permissions {
			if _, ok := held[p]; !ok {
				return false
			}
		}
		return true
	}
	for _, p := range req.Permissions {
		if _, ok := held[p]; ok {
			return true
		}
	}
	return false
}
