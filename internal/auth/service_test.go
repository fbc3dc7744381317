// Copyright (c) 2025 QueryForge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

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

func newService(t *testing.T, handler http.Handler) (*Service, *session.Memory) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	store := session.NewMemory()
	return NewService(api.New(srv.URL, store), store), store
}

func TestLoginStoresTokenOnSuccess(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(api.PathLogin, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "admin@queryforge.dev", body["email"])
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok-123",
			"user": map[string]any{
				"id": 1, "email": "admin@queryforge.dev", "role": "Admin",
			},
		})
	})
	svc, store := newService(t, mux)

	res, err := svc.Login(context.Background(), "admin@queryforge.dev", "Secret1!")
	require.NoError(t, err)
	require.True(t, res.OK)
	assert.Equal(t, "Admin", res.User.Role)
	assert.Equal(t, "tok-123", res.Token)

	tok, ok := store.Token()
	require.True(t, ok, "token retrievable from the session store immediately after login")
	assert.Equal(t, "tok-123", tok)
}

func TestLoginBadCredentialsIsStructuredNotError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(api.PathLogin, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid email or password"})
	})
	svc, store := newService(t, mux)

	res, err := svc.Login(context.Background(), "admin@queryforge.dev", "wrong")
	require.NoError(t, err, "expected failures never throw")
	assert.False(t, res.OK)
	assert.Equal(t, "Invalid email or password", res.Err)

	_, ok := store.Token()
	assert.False(t, ok)
}

func TestLoginValidatesEmailLocally(t *testing.T) {
	var calls int
	svc, _ := newService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))

	res, err := svc.Login(context.Background(), "not-an-email", "Secret1!")
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, "invalid email format", res.Err)
	assert.Zero(t, calls, "no request for malformed input")
}

func TestCurrentUserInvalidTokenClearsSessionWithoutError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(api.PathMe, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc(api.PathRefresh, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	svc, store := newService(t, mux)
	require.NoError(t, store.SetToken("expired"))

	user, err := svc.CurrentUser(context.Background())
	require.NoError(t, err, "expired token yields no user, never an error")
	assert.Nil(t, user)

	_, ok := store.Token()
	assert.False(t, ok)
}

func TestCurrentUserWithoutTokenSkipsNetwork(t *testing.T) {
	var calls int
	svc, _ := newService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))

	user, err := svc.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Nil(t, user)
	assert.Zero(t, calls)
}

func TestLogoutClearsLocallyEvenWhenBackendFails(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(api.PathLogout, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	svc, store := newService(t, mux)
	require.NoError(t, store.SetToken("tok-123"))

	require.NoError(t, svc.Logout(context.Background()))

	_, ok := store.Token()
	assert.False(t, ok, "local clear is unconditional")
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  string
	}{
		{name: "too short", password: "Ab1!", wantErr: "password must be at least 8 characters long"},
		{name: "no uppercase", password: "abcdef1!", wantErr: "password must contain at least one uppercase letter"},
		{name: "no lowercase", password: "ABCDEF1!", wantErr: "password must contain at least one lowercase letter"},
		{name: "no digit", password: "Abcdefg!", wantErr: "password must contain at least one number"},
		{name: "no special", password: "Abcdefg1", wantErr: "password must contain at least one special character"},
		{name: "valid", password: "Abcdefg1!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.EqualError(t, err, tt.wantErr)
			}
		})
	}
}
