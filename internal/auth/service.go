// Copyright (c) 2025 QueryForge
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package auth implements the authentication flows of the QueryForge CLI:
// login, registration, password management and "who am I" resolution. It
// produces and consumes the session store but never touches durable storage
// directly; all backend traffic goes through the request client.
package auth

import (
	"context"

	"queryforge/cli/internal/api"
	"queryforge/cli/internal/session"
)

// User is the immutable snapshot of the authenticated account as the backend
// last reported it. It is refreshed only at login, startup resolution, or an
// explicit profile refresh; staleness in between is expected.
type User struct {
	ID          int      `json:"id"`
	Email       string   `json:"email"`
	FirstName   string   `json:"first_name"`
	LastName    string   `json:"last_name"`
	FullName    string   `json:"full_name"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
	IsActive    bool     `json:"is_active"`
	IsApproved  bool     `json:"is_approved"`
	CreatedAt   string   `json:"created_at"`
	LastLogin   string   `json:"last_login"`
}

// Result carries the outcome of an auth operation. Expected failures (bad
// credentials, pending approval) land in Err with OK=false; Go errors are
// reserved for transport faults.
type Result struct {
	OK    bool
	User  *User
	Token string
	Err   string
}

// Service centralizes authentication operations against the backend and the
// session store.
type Service struct {
	client *api.Client
	store  session.Store
}

// NewService constructs an auth Service over the shared request client.
func NewService(client *api.Client, store session.Store) *Service {
	return &Service{client: client, store: store}
}

// Login authenticates with email and password. On success the returned token
// is persisted through the session store before the result is returned, so a
// caller can rely on subsequent calls being authenticated.
func (s *Service) Login(ctx context.Context, email, password string) (Result, error) {
	if err := ValidateEmail(email); err != nil {
		return Result{Err: err.Error()}, nil
	}
	if password == "" {
		return Result{Err: "password is required"}, nil
	}

	resp, err := s.client.Post(ctx, api.PathLogin, map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return Result{}, err
	}
	if !resp.Ok() {
		return Result{Err: resp.ErrorMessage()}, nil
	}

	var out struct {
		AccessToken string `json:"access_token"`
		User        User   `json:"user"`
	}
	if err := resp.Decode(&out); err != nil {
		return Result{}, err
	}
	if err := s.store.SetToken(out.AccessToken); err != nil {
		return Result{}, err
	}
	return Result{OK: true, User: &out.User, Token: out.AccessToken}, nil
}

// Profile holds the fields required to register a new account.
type Profile struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

// Register creates a new account. New accounts start unapproved; the backend
// message says so and is surfaced verbatim.
func (s *Service) Register(ctx context.Context, p Profile) (Result, error) {
	if err := ValidateEmail(p.Email); err != nil {
		return Result{Err: err.Error()}, nil
	}
	if p.FirstName == "" || p.LastName == "" {
		return Result{Err: "first and last name are required"}, nil
	}
	if err := ValidatePassword(p.Password); err != nil {
		return Result{Err: err.Error()}, nil
	}

	resp, err := s.client.Post(ctx, api.PathRegister, p)
	if err != nil {
		return Result{}, err
	}
	if !resp.Ok() {
		return Result{Err: resp.ErrorMessage()}, nil
	}
	return Result{OK: true}, nil
}

// CurrentUser resolves the authenticated account at startup. An expired or
// invalid token clears the session and yields (nil, nil): "no user" is an
// answer here, never an error to throw.
func (s *Service) CurrentUser(ctx context.Context) (*User, error) {
	if _, ok := s.store.Token(); !ok {
		return nil, nil
	}

	resp, err := s.client.Get(ctx, api.PathMe, nil)
	if err != nil {
		if err == api.ErrSessionExpired {
			return nil, nil
		}
		return nil, err
	}
	if !resp.Ok() {
		_ = s.store.Clear()
		return nil, nil
	}

	var out struct {
		User User `json:"user"`
	}
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// ChangePassword replaces the account password after validating the new one
// locally first.
func (s *Service) ChangePassword(ctx context.Context, oldPassword, newPassword string) (Result, error) {
	if oldPassword == "" || newPassword == "" {
		return Result{Err: "old and new passwords are required"}, nil
	}
	if err := ValidatePassword(newPassword); err != nil {
		return Result{Err: err.Error()}, nil
	}

	resp, err := s.client.Post(ctx, api.PathChangePassword, map[string]string{
		"old_password": oldPassword,
		"new_password": newPassword,
	})
	if err != nil {
		return Result{}, err
	}
	if !resp.Ok() {
		return Result{Err: resp.ErrorMessage()}, nil
	}
	return Result{OK: true}, nil
}

// RequestPasswordReset asks the backend to mail a reset link. The backend
// answers identically whether or not the address exists.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) (Result, error) {
	if err := ValidateEmail(email); err != nil {
		return Result{Err: err.Error()}, nil
	}
	resp, err := s.client.Post(ctx, api.PathForgotPassword, map[string]string{"email": email})
	if err != nil {
		return Result{}, err
	}
	if !resp.Ok() {
		return Result{Err: resp.ErrorMessage()}, nil
	}
	return Result{OK: true}, nil
}

// CompletePasswordReset redeems a reset token for a new password.
func (s *Service) CompletePasswordReset(ctx context.Context, token, newPassword string) (Result, error) {
	if token == "" {
		return Result{Err: "reset token is required"}, nil
	}
	if err := ValidatePassword(newPassword); err != nil {
		return Result{Err: err.Error()}, nil
	}
	resp, err := s.client.Post(ctx, api.PathResetPassword, map[string]string{
		"token":        token,
		"new_password": newPassword,
	})
	if err != nil {
		return Result{}, err
	}
	if !resp.Ok() {
		return Result{Err: resp.ErrorMessage()}, nil
	}
	return Result{OK: true}, nil
}

// Logout notifies the backend (best effort) and then clears the session
// unconditionally. Client-side logout always succeeds locally; a failed
// remote notification never blocks or reverses the clear.
func (s *Service) Logout(ctx context.Context) error {
	if _, ok := s.store.Token(); ok {
		_, _ = s.client.Post(ctx, api.PathLogout, nil)
	}
	return s.store.Clear()
}
