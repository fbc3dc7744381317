// Copyright (c) 2025 QueryForge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"queryforge/cli/internal/api"
	"queryforge/cli/internal/session"
)

func newTestService(t *testing.T, handler http.Handler) *Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	store := session.NewMemory()
	require.NoError(t, store.SetToken("tok"))
	return NewService(api.New(srv.URL, store))
}

func TestStatsDecodesNestedCounters(t *testing.T) {
	s := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, api.PathSystemStats, r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"stats": map[string]any{
				"users":           map[string]int{"total": 42, "active": 40, "pending_approval": 3},
				"recent_activity": map[string]int{"last_24h": 7, "last_7d": 19},
			},
		})
	}))

	stats, err := s.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, stats.Users.Total)
	assert.Equal(t, 3, stats.Users.PendingApproval)
	assert.Equal(t, 19, stats.RecentActivity.Last7d)
}

func TestSetUserRoleSendsRoleName(t *testing.T) {
	var method, path string
	var body map[string]any
	s := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		json.NewDecoder(r.Body).Decode(&body)
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"message": "User role updated to Developer",
		})
	}))

	msg, err := s.SetUserRole(context.Background(), 7, "Developer")
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/api/admin/users/7/role", path)
	assert.Equal(t, map[string]any{"role_name": "Developer"}, body)
	assert.Equal(t, "User role updated to Developer", msg)
}

func TestSetUserRoleSurfacesBackendError(t *testing.T) {
	s := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid role"})
	}))

	_, err := s.SetUserRole(context.Background(), 7, "Wizard")
	require.Error(t, err)
	assert.EqualError(t, err, "Invalid role")
}

func TestSchemaAndTemplates(t *testing.T) {
	s := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case api.PathSQLSchema:
			json.NewEncoder(w).Encode(map[string]any{
				"success": true,
				"schema": map[string]any{
					"users": map[string]any{
						"columns": []map[string]any{
							{"name": "id", "type": "INTEGER", "nullable": false, "primary_key": true},
							{"name": "email", "type": "VARCHAR(120)", "nullable": false},
						},
					},
				},
				"table_count": 1,
			})
		case api.PathSQLTemplates:
			json.NewEncoder(w).Encode(map[string]any{
				"success": true,
				"templates": map[string]any{
					"basic_queries": []map[string]string{
						{"name": "Select All Users", "query": "SELECT * FROM users LIMIT 10;", "description": "Retrieve first 10 users"},
					},
				},
			})
		}
	}))

	schema, err := s.Schema(context.Background())
	require.NoError(t, err)
	require.Contains(t, schema, "users")
	require.Len(t, schema["users"].Columns, 2)
	assert.True(t, schema["users"].Columns[0].PrimaryKey)

	templates, err := s.Templates(context.Background())
	require.NoError(t, err)
	require.Len(t, templates["basic_queries"], 1)
	assert.Equal(t, "Select All Users", templates["basic_queries"][0].Name)
}
