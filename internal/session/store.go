// Copyright (c) 2025 QueryForge
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package session owns the bearer token for the current QueryForge session.
// It is the single choke point for credential reads and writes: no other
// package touches durable storage directly. At most one session exists per
// host; it is created on login, survives restarts, and is destroyed on
// logout or irrecoverable auth failure.
package session

import "sync"

// Store holds the current bearer token.
//
// Implementations must be safe for concurrent use: an in-flight request
// captures the token at dispatch time, so a rotation during the request
// cannot corrupt it, and the next request naturally picks up the new value.
type Store interface {
	// Token returns the held token and whether one is present.
	Token() (string, bool)
	// SetToken replaces the held token.
	SetToken(token string) error
	// Clear removes the held token.
	Clear() error
}

// Memory is an in-process Store used by tests and as a cache layer.
type Memory struct {
	mu    sync.RWMutex
	token string
	set   bool
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory { return &Memory{} }

func (m *Memory) Token() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.set || m.token == "" {
		return "", false
	}
	return m.token, true
}

func (m *Memory) SetToken(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	m.set = token != ""
	return nil
}

func (m *Memory) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.set = false
	return nil
}
