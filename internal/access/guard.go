// Copyright (c) 2025 QueryForge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package access

import (
	"errors"

	"queryforge/cli/internal/session"
)

// ErrLoginRequired means no session exists at all; the caller should be sent
// to login rather than told they lack a role.
var ErrLoginRequired = errors.New("not logged in, run 'qf login' first")

// ErrForbidden means a session exists but the user fails the requirement.
var ErrForbidden = errors.New("you do not have permission for this action")

// Guard protects whole command surfaces. Unlike Allowed it first checks
// that a session is present, so an anonymous user gets a login prompt
// instead of a misleading permission denial.
type Guard struct {
	store session.Store
}

// NewGuard wraps a session store.
func NewGuard(store session.Store) *Guard {
	return &Guard{store: store}
}

// Check returns nil when the command may proceed.
func (g *Guard) Check(role string, permissions []string, req Requirement) error {
	if _, ok := g.store.Token(); !ok {
		return ErrLoginRequired
	}
	if !Allowed(role, permissions, req) {
		return ErrForbidden
	}
	return nil
}
