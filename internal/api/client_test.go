// Copyright (c) 2025 QueryForge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"queryforge/cli/internal/session"
)

func TestCallAttachesBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	store := session.NewMemory()
	require.NoError(t, store.SetToken("tok-1"))
	c := New(srv.URL, store)

	resp, err := c.Get(context.Background(), "/api/models", nil)
	require.NoError(t, err)
	assert.True(t, resp.Ok())
	assert.Equal(t, "Bearer tok-1", gotAuth)
}

func TestCallWithoutTokenOmitsHeader(t *testing.T) {
	var sawHeader bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawHeader = r.Header["Authorization"]
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(srv.URL, session.NewMemory())
	_, err := c.Get(context.Background(), "/api/models", nil)
	require.NoError(t, err)
	assert.False(t, sawHeader, "no Authorization header expected after logout")
}

func TestUnauthorizedRefreshesOnceAndRetries(t *testing.T) {
	var refreshes, calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc(PathRefresh, func(w http.ResponseWriter, r *http.Request) {
		refreshes.Add(1)
		assert.Equal(t, "Bearer stale", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]string{"access_token": "fresh"})
	})
	mux.HandleFunc("/api/models", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Header.Get("Authorization") != "Bearer fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"success": true}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	store := session.NewMemory()
	require.NoError(t, store.SetToken("stale"))
	c := New(srv.URL, store)

	resp, err := c.Get(context.Background(), "/api/models", nil)
	require.NoError(t, err)
	assert.True(t, resp.Ok())
	assert.Equal(t, int32(1), refreshes.Load())
	assert.Equal(t, int32(2), calls.Load())

	tok, ok := store.Token()
	require.True(t, ok)
	assert.Equal(t, "fresh", tok, "refreshed token persisted in the store")
}

func TestSecondUnauthorizedIsSurfacedNotRetried(t *testing.T) {
	var refreshes atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc(PathRefresh, func(w http.ResponseWriter, r *http.Request) {
		refreshes.Add(1)
		json.NewEncoder(w).Encode(map[string]string{"access_token": "fresh"})
	})
	mux.HandleFunc("/api/agents", func(w http.ResponseWriter, r *http.Request) {
		// Keeps rejecting even the fresh token: a genuine authorization failure.
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": "Admin access required"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	store := session.NewMemory()
	require.NoError(t, store.SetToken("stale"))
	c := New(srv.URL, store)

	resp, err := c.Get(context.Background(), "/api/agents", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.Status)
	assert.Equal(t, int32(1), refreshes.Load(), "exactly one refresh per call")
	assert.Equal(t, "Admin access required", resp.ErrorMessage())
}

func TestRefreshFailureClearsSessionAndSignals(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(PathRefresh, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/api/tools", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	store := session.NewMemory()
	require.NoError(t, store.SetToken("expired"))

	var signalled bool
	c := New(srv.URL, store, WithExpiryHook(func() { signalled = true }))

	resp, err := c.Get(context.Background(), "/api/tools", nil)
	assert.Nil(t, resp, "sentinel: caller gets no response to re-surface")
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.True(t, signalled)

	_, ok := store.Token()
	assert.False(t, ok, "session cleared after failed refresh")
}

func TestTransportFaultPreservesSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	store := session.NewMemory()
	require.NoError(t, store.SetToken("tok-1"))
	c := New(srv.URL, store)

	_, err := c.Get(context.Background(), "/api/models", nil)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSessionExpired)

	tok, ok := store.Token()
	require.True(t, ok, "connectivity errors never clear the session")
	assert.Equal(t, "tok-1", tok)
}

func TestNonUnauthorizedStatusesPassThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "Model with this name already exists"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, session.NewMemory())
	resp, err := c.Post(context.Background(), "/api/models", map[string]string{"name": "gpt"})
	require.NoError(t, err)
	assert.False(t, resp.Ok())
	assert.Equal(t, "Model with this name already exists", resp.ErrorMessage())
}

func TestErrorMessageFallsBackToStatusText(t *testing.T) {
	r := &Response{Status: http.StatusBadGateway, Body: []byte("<html>upstream</html>")}
	assert.Equal(t, "Bad Gateway", r.ErrorMessage())
}
