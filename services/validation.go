// ABOUTME: Input validation functions for API parameters
// ABOUTME: Rejects malformed credentials before they reach the TMDB API

package services

import (
	"fmt"
	"strings"
)

const (
	maxUsernameLength = 64
	maxPasswordLength = 128
)

// sanitizeForLog removes control characters from strings to prevent log injection
// when including user input in error messages
func sanitizeForLog(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return -1 // Remove control characters
		}
		return r
	}, s)
}

// containsControlChars reports whether s has any ASCII control characters.
func containsControlChars(s string) bool {
	return strings.ContainsFunc(s, func(r rune) bool {
		return r < 32 || r == 127
	})
}

// ValidateCredentials checks that login input is plausible before any
// network call is made. The TMDB API performs the real check; this only
// rejects input that could never be valid.
func ValidateCredentials(username, password string) error {
	if username == "" {
		return fmt.Errorf("username cannot be empty")
	}
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}
	if len(username) > maxUsernameLength {
		return fmt.Errorf("username exceeds %d characters", maxUsernameLength)
	}
	if len(password) > maxPasswordLength {
		return fmt.Errorf("password exceeds %d characters", maxPasswordLength)
	}
	if containsControlChars(username) {
		return fmt.Errorf("invalid username: %s", sanitizeForLog(username))
	}
	if containsControlChars(password) {
		return fmt.Errorf("password contains control characters")
	}
	return nil
}
