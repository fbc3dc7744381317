// Copyright (c) 2025 QueryForge
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package keychain provides centralized, thread-safe keychain operations for
// the QueryForge CLI. This module manages all interactions with the OS
// keychain/credential store, providing a unified interface for storing and
// retrieving the session bearer token and serialized session state.
//
// macOS Keychain and Windows Credential Manager are used natively; other
// platforms fall back to an encrypted file store under the XDG state dir so
// headless Linux hosts keep working.
package keychain

import (
	"path/filepath"
	"runtime"
	"sync"

	"github.com/99designs/keyring"

	"queryforge/cli/internal/xdg"
)

// Global keychain manager instance
var (
	globalManager *Manager
	globalError   error
	mu            sync.Mutex
)

// Manager provides centralized, thread-safe operations for the OS keychain.
type Manager struct {
	mu   sync.RWMutex
	ring keyring.Keyring
}

// ServiceName identifies our keychain/credential store namespace.
const ServiceName = "queryforge"

// Keys used for storing secrets in the OS keychain.
const (
	KeyToken        = "session_token"
	KeySessionState = "session_state"
)

// NewManager creates a new keychain manager with the OS keyring initialized.
func NewManager() (*Manager, error) {
	ring, err := openRing()
	if err != nil {
		return nil, err
	}
	return &Manager{ring: ring}, nil
}

// GetManager returns the global keychain manager instance.
// If not initialized, it will be created on first call.
// If initialization fails, it will retry on subsequent calls.
func GetManager() (*Manager, error) {
	mu.Lock()
	defer mu.Unlock()

	if globalManager != nil {
		return globalManager, nil
	}

	globalManager, globalError = NewManager()
	if globalError != nil {
		return nil, globalError
	}
	return globalManager, nil
}

// openRing opens the OS keyring, preferring native platform backends and
// falling back to the file backend elsewhere.
func openRing() (keyring.Keyring, error) {
	var allowedBackends []keyring.BackendType
	switch runtime.GOOS {
	case "darwin":
		allowedBackends = []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		}
	case "windows":
		allowedBackends = []keyring.BackendType{
			keyring.WinCredBackend,
			keyring.FileBackend,
		}
	default:
		allowedBackends = []keyring.BackendType{
			keyring.SecretServiceBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		}
	}

	fileDir := ""
	if dir, err := xdg.StateDir(); err == nil {
		fileDir = filepath.Join(dir, "keyring")
	}

	cfg := keyring.Config{
		ServiceName:      ServiceName,
		AllowedBackends:  allowedBackends,
		PassPrefix:       ServiceName,
		FileDir:          fileDir,
		FilePasswordFunc: keyring.FixedStringPrompt(ServiceName),
	}
	if runtime.GOOS == "windows" {
		cfg.WinCredPrefix = ServiceName
	}

	return keyring.Open(cfg)
}

// SaveToken stores the session bearer token in the OS keychain.
// This method is thread-safe.
func (m *Manager) SaveToken(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.ring.Set(keyring.Item{Key: KeyToken, Data: []byte(token)})
}

// LoadToken retrieves the session bearer token from the keychain.
// A missing token is reported as keyring.ErrKeyNotFound.
// This method is thread-safe.
func (m *Manager) LoadToken() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	it, err := m.ring.Get(KeyToken)
	if err != nil {
		return "", err
	}
	if len(it.Data) == 0 {
		return "", keyring.ErrKeyNotFound
	}
	return string(it.Data), nil
}

// SaveSessionState stores serialized session state in the keychain.
// This method is thread-safe.
func (m *Manager) SaveSessionState(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.ring.Set(keyring.Item{Key: KeySessionState, Data: data})
}

// LoadSessionState retrieves serialized session state from the keychain.
// This method is thread-safe.
func (m *Manager) LoadSessionState() ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	it, err := m.ring.Get(KeySessionState)
	if err != nil {
		return nil, err
	}
	return it.Data, nil
}

// ClearSession removes the token and session state from the keychain.
// This method is thread-safe.
func (m *Manager) ClearSession() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	_ = m.ring.Remove(KeyToken)
	_ = m.ring.Remove(KeySessionState)
	return nil
}
