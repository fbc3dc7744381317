// Copyright (c) 2025 QueryForge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"errors"
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail checks the address format locally so no request is issued
// for obviously malformed input.
func ValidateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return errors.New("email is required")
	}
	if !emailPattern.MatchString(email) {
		return errors.New("invalid email format")
	}
	return nil
}

// weakPasswords the backend rejects outright.
var weakPasswords = map[string]struct{}{
	"password":    {},
	"12345678":    {},
	"qwerty123":   {},
	"admin123":    {},
	"letmein123":  {},
	"password123": {},
	"admin1234":   {},
	"welcome123":  {},
	"changeme123": {},
}

var (
	hasUpper   = regexp.MustCompile(`[A-Z]`)
	hasLower   = regexp.MustCompile(`[a-z]`)
	hasDigit   = regexp.MustCompile(`\d`)
	hasSpecial = regexp.MustCompile("[!@#$%^&*()_+\\-=\\[\\]{};':\"\\\\|,.<>/?~`]")
)

// ValidatePassword mirrors the backend's strength rules so failures are
// caught before any network call.
func ValidatePassword(password string) error {
	switch {
	case len(password) < 8:
		return errors.New("password must be at least 8 characters long")
	case len(password) > 128:
		return errors.New("password must be less than 128 characters")
	case !hasUpper.MatchString(password):
		return errors.New("password must contain at least one uppercase letter")
	case !hasLower.MatchString(password):
		return errors.New("password must contain at least one lowercase letter")
	case !hasDigit.MatchString(password):
		return errors.New("password must contain at least one number")
	case !hasSpecial.MatchString(password):
		return errors.New("password must contain at least one special character")
	}
	if _, weak := weakPasswords[strings.ToLower(password)]; weak {
		return errors.New("password is too common")
	}
	return nil
}
