// ABOUTME: Tests for credential input validation
// ABOUTME: Covers length limits, control characters, and log sanitization

package services

import (
	"strings"
	"testing"
)

func TestValidateCredentials(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		wantErr  bool
	}{
		{"valid", "alice", "s3cret-password", false},
		{"empty username", "", "password", true},
		{"empty password", "alice", "", true},
		{"username at limit", strings.Repeat("a", 64), "password", false},
		{"username too long", strings.Repeat("a", 65), "password", true},
		{"password at limit", "alice", strings.Repeat("p", 128), false},
		{"password too long", "alice", strings.Repeat("p", 129), true},
		{"username with newline", "alice\nadmin", "password", true},
		{"password with control char", "alice", "pass\x00word", true},
		{"unicode username", "ålice", "password", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCredentials(tt.username, tt.password)
			if tt.wantErr && err == nil {
				t.Error("Expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Expected no error, got %v", err)
			}
		})
	}
}

func TestValidateCredentials_ErrorOmitsPassword(t *testing.T) {
	err := ValidateCredentials("alice", "sup3r\nsecret")
	if err == nil {
		t.Fatal("Expected error")
	}
	if strings.Contains(err.Error(), "secret") {
		t.Error("Error message must not include the password")
	}
}

func TestSanitizeForLog(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"normal", "normal"},
		{"with\nnewline", "withnewline"},
		{"with\ttab", "withtab"},
		{"with\x00null", "withnull"},
		{"with\x7fdel", "withdel"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := sanitizeForLog(tt.input); got != tt.want {
			t.Errorf("sanitizeForLog(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
