// Copyright (c) 2025 QueryForge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package session

import (
	"encoding/json"
	"errors"

	"github.com/99designs/keyring"

	"queryforge/cli/internal/keychain"
)

// Keychain is the durable Store backed by the OS keychain. The token lives
// under a single well-known key; everything else (filters, pagination,
// console history) is in-memory only and resets per invocation.
type Keychain struct {
	km *keychain.Manager
}

// Open returns the keychain-backed store, initializing the keychain manager
// on first use.
func Open() (*Keychain, error) {
	km, err := keychain.GetManager()
	if err != nil {
		return nil, err
	}
	return &Keychain{km: km}, nil
}

func (k *Keychain) Token() (string, bool) {
	token, err := k.km.LoadToken()
	if err != nil || token == "" {
		return "", false
	}
	return token, true
}

func (k *Keychain) SetToken(token string) error {
	if token == "" {
		return k.km.ClearSession()
	}
	return k.km.SaveToken(token)
}

func (k *Keychain) Clear() error {
	return k.km.ClearSession()
}

// State is a small snapshot of who was last logged in, kept alongside the
// token so `qf whoami` can answer offline the way the backend last reported.
type State struct {
	LoggedIn bool   `json:"logged_in"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// LoadState reads the persisted session snapshot. Missing state yields the
// zero value.
func (k *Keychain) LoadState() (State, error) {
	var s State
	data, err := k.km.LoadSessionState()
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return s, nil
		}
		return s, err
	}
	if len(data) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return s, err
	}
	return s, nil
}

// SaveState writes the session snapshot next to the token.
func (k *Keychain) SaveState(s State) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return k.km.SaveSessionState(b)
}
