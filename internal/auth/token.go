// Copyright (c) 2025 QueryForge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionExpiry reports when the held token expires. The claims are parsed
// without signature verification: validity is the backend's call, this is
// display only (`qf whoami` shows the remaining lifetime).
func (s *Service) SessionExpiry() (time.Time, error) {
	token, ok := s.store.Token()
	if !ok {
		return time.Time{}, errors.New("no session")
	}

	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, err
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, errors.New("token has no expiry claim")
	}
	return exp.Time, nil
}
