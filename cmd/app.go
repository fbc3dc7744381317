// Copyright (c) 2025 QueryForge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"errors"

	"github.com/pterm/pterm"

	"queryforge/cli/internal/access"
	"queryforge/cli/internal/api"
	"queryforge/cli/internal/auth"
	"queryforge/cli/internal/config"
	"queryforge/cli/internal/httperrors"
	"queryforge/cli/internal/session"
)

// app bundles the wired services every command needs: config, the durable
// session store, the authenticated request client and the auth service.
type app struct {
	cfg    config.Config
	store  *session.Keychain
	client *api.Client
	auth   *auth.Service
}

// newApp loads config and opens the keychain-backed session store. The
// request client's expiry hook points the user at login after an
// unrecoverable 401; nothing else reacts to session expiry.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	store, err := session.Open()
	if err != nil {
		return nil, err
	}
	client := api.New(cfg.BaseURL, store, api.WithExpiryHook(func() {
		pterm.Println()
		pterm.Println("🔒 Your session has expired.")
		pterm.Println("   Run 'qf login' to sign in again.")
	}))
	return &app{
		cfg:    cfg,
		store:  store,
		client: client,
		auth:   auth.NewService(client, store),
	}, nil
}

// requireUser resolves the current user and checks the requirement through
// the access guard. An anonymous caller gets a login prompt, a known caller
// that fails the check gets a permission denial.
func (a *app) requireUser(ctx context.Context, req access.Requirement) (*auth.User, error) {
	if _, ok := a.store.Token(); !ok {
		return nil, access.ErrLoginRequired
	}
	user, err := a.auth.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, access.ErrLoginRequired
	}
	if err := access.NewGuard(a.store).Check(user.Role, user.Permissions, req); err != nil {
		return nil, err
	}
	return user, nil
}

// adminOnly is the requirement shared by every admin surface.
var adminOnly = access.Requirement{Roles: []string{access.RoleAdmin}}

// presentNetworkError renders a transport fault for the user. The
// session-expired sentinel is terminal and already handled at this point:
// the session is cleared and the expiry hook printed the login hint, so it
// is swallowed here instead of being dressed up as a connectivity problem.
func presentNetworkError(err error, context string) error {
	if errors.Is(err, api.ErrSessionExpired) {
		return nil
	}
	return httperrors.FormatNetworkError(err, context)
}

// swallowExpired filters the session-expired sentinel out of error paths
// that return backend messages verbatim.
func swallowExpired(err error) error {
	if errors.Is(err, api.ErrSessionExpired) {
		return nil
	}
	return err
}
