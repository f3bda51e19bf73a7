// ABOUTME: Value types for TMDB authentication API responses
// ABOUTME: Request tokens and sessions mapped field-for-field from JSON

package tmdb

import "time"

// expiresAtLayout is the timestamp format TMDB uses in expires_at fields,
// e.g. "2016-08-26 17:04:39 UTC". It is not RFC 3339, so the raw string is
// kept on the wire types and parsed on demand.
const expiresAtLayout = "2006-01-02 15:04:05 MST"

// RequestToken is a short-lived credential-exchange token issued by TMDB.
// Tokens expire server-side 60 minutes after issuance and are destroyed
// once a session has been created from them.
type RequestToken struct {
	Success   bool   `json:"success"`
	ExpiresAt string `json:"expires_at"`
	Token     string `json:"request_token"`
}

// ExpiresAtTime parses the token's expires_at timestamp.
func (t *RequestToken) ExpiresAtTime() (time.Time, error) {
	return time.Parse(expiresAtLayout, t.ExpiresAt)
}

// Session represents an authenticated or guest TMDB session. SessionID is
// set for user sessions; GuestSessionID and ExpiresAt are set for guest
// sessions, which TMDB discards after 24 hours without activity.
type Session struct {
	Success        bool   `json:"success"`
	SessionID      string `json:"session_id"`
	GuestSessionID string `json:"guest_session_id,omitempty"`
	ExpiresAt      string `json:"expires_at,omitempty"`
}
