// ABOUTME: Auth request/response models for the BFF session pattern
// ABOUTME: Defines broker session structure and login/guest API contracts

package models

import "time"

// LoginRequest represents credentials for authentication
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse represents the result of a login attempt
type LoginResponse struct {
	Success  bool   `json:"success"`
	Username string `json:"username,omitempty"`
	Error    string `json:"error,omitempty"`
}

// UserInfoResponse represents the current user's authentication state
type UserInfoResponse struct {
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username,omitempty"`
}

// GuestSessionResponse represents an issued guest session. Guest session
// IDs are handed to the client directly; TMDB scopes them to rating
// actions and discards them after 24 hours of inactivity.
type GuestSessionResponse struct {
	Success        bool   `json:"success"`
	GuestSessionID string `json:"guest_session_id"`
	ExpiresAt      string `json:"expires_at,omitempty"`
}

// ErrorResponse is the JSON error envelope for all API errors
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// Session stores server-side authentication state for a brokered login.
// The TMDB session ID never leaves the server.
type Session struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	TMDBSessionID string    `json:"-"` // Never expose to client
	CSRFToken     string    `json:"-"` // Delivered once via cookie
	CreatedAt     time.Time `json:"created_at"`
}
