// Copyright (c) 2025 QueryForge
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package admin wraps the admin-only backend surfaces that do not fit the
// generic entity controller: system statistics, database schema inspection,
// the canned SQL template catalog and user role management.
package admin

import (
	"context"
	"errors"

	"queryforge/cli/internal/api"
)

// Stats is the system statistics snapshot.
type Stats struct {
	Users struct {
		Total           int `json:"total"`
		Active          int `json:"active"`
		PendingApproval int `json:"pending_approval"`
	} `json:"users"`
	RecentActivity struct {
		Last24h int `json:"last_24h"`
		Last7d  int `json:"last_7d"`
	} `json:"recent_activity"`
}

// Column describes one table column.
type Column struct {
	Name       string  `json:"name"`
	Type       string  `json:"type"`
	Nullable   bool    `json:"nullable"`
	PrimaryKey bool    `json:"primary_key"`
	Default    *string `json:"default"`
}

// ForeignKey describes one foreign key constraint.
type ForeignKey struct {
	ConstrainedColumns []string `json:"constrained_columns"`
	ReferredTable      string   `json:"referred_table"`
	ReferredColumns    []string `json:"referred_columns"`
}

// Index describes one index.
type Index struct {
	Name        string   `json:"name"`
	ColumnNames []string `json:"column_names"`
	Unique      bool     `json:"unique"`
}

// Table is the introspected shape of one database table.
type Table struct {
	Columns     []Column     `json:"columns"`
	ForeignKeys []ForeignKey `json:"foreign_keys"`
	Indexes     []Index      `json:"indexes"`
}

// Template is one canned query from the server-side catalog.
type Template struct {
	Name        string `json:"name"`
	Query       string `json:"query"`
	Description string `json:"description"`
}

// Service issues admin-only calls through the shared request client.
type Service struct {
	client *api.Client
}

// NewService wraps the request client.
func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

// Stats fetches the system statistics snapshot.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	resp, err := s.client.Get(ctx, api.PathSystemStats, nil)
	if err != nil {
		return nil, err
	}
	if !resp.Ok() {
		return nil, errors.New(resp.ErrorMessage())
	}
	var envelope struct {
		Stats Stats `json:"stats"`
	}
	if err := resp.Decode(&envelope); err != nil {
		return nil, err
	}
	return &envelope.Stats, nil
}

// Schema fetches the introspected database schema, keyed by table name.
func (s *Service) Schema(ctx context.Context) (map[string]Table, error) {
	resp, err := s.client.Get(ctx, api.PathSQLSchema, nil)
	if err != nil {
		return nil, err
	}
	if !resp.Ok() {
		return nil, errors.New(resp.ErrorMessage())
	}
	var envelope struct {
		Schema map[string]Table `json:"schema"`
	}
	if err := resp.Decode(&envelope); err != nil {
		return nil, err
	}
	return envelope.Schema, nil
}

// Templates fetches the canned query catalog, grouped by category.
func (s *Service) Templates(ctx context.Context) (map[string][]Template, error) {
	resp, err := s.client.Get(ctx, api.PathSQLTemplates, nil)
	if err != nil {
		return nil, err
	}
	if !resp.Ok() {
		return nil, errors.New(resp.ErrorMessage())
	}
	var envelope struct {
		Templates map[string][]Template `json:"templates"`
	}
	if err := resp.Decode(&envelope); err != nil {
		return nil, err
	}
	return envelope.Templates, nil
}

// SetUserRole assigns a role by name. The backend validates the role and
// records the change in its audit log.
func (s *Service) SetUserRole(ctx context.Context, userID int, role string) (string, error) {
	resp, err := s.client.Put(ctx, api.UserRolePath(userID), map[string]any{"role_name": role})
	if err != nil {
		return "", err
	}
	if !resp.Ok() {
		return "", errors.New(resp.ErrorMessage())
	}
	var envelope struct {
		Message string `json:"message"`
	}
	if err := resp.Decode(&envelope); err != nil {
		return "", err
	}
	return envelope.Message, nil
}
