// ABOUTME: Session management service for the BFF session pattern
// ABOUTME: Stores brokered TMDB sessions server-side using the cache backend

package services

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/markalston/tmdb-session-broker/cache"
	"github.com/markalston/tmdb-session-broker/models"
)

// SessionService manages server-side authentication sessions. The TMDB
// session ID lives only in the cache entry; clients hold an opaque
// broker session ID in a cookie.
type SessionService struct {
	cache *cache.Cache
	ttl   time.Duration
}

// NewSessionService creates a session service. Sessions idle out after
// ttl; the TMDB session ID itself never expires server-side, so the TTL
// bounds how long a browser cookie stays usable.
func NewSessionService(c *cache.Cache, ttl time.Duration) *SessionService {
	if ttl < time.Minute {
		ttl = time.Minute
	}
	return &SessionService{cache: c, ttl: ttl}
}

// Create generates a new session and stores it in the cache.
// Returns the cryptographically secure session ID.
func (s *SessionService) Create(username, tmdbSessionID string) (string, error) {
	sessionID, err := randomToken()
	if err != nil {
		return "", err
	}
	csrfToken, err := randomToken()
	if err != nil {
		return "", err
	}

	session := &models.Session{
		ID:            sessionID,
		Username:      username,
		TMDBSessionID: tmdbSessionID,
		CSRFToken:     csrfToken,
		CreatedAt:     time.Now(),
	}

	s.cache.SetWithTTL(sessionKey(sessionID), session, s.ttl)

	return sessionID, nil
}

// Get retrieves a session by ID
func (s *SessionService) Get(sessionID string) (*models.Session, error) {
	val, ok := s.cache.Get(sessionKey(sessionID))
	if !ok {
		return nil, errors.New("session not found")
	}

	session, ok := val.(*models.Session)
	if !ok {
		return nil, errors.New("invalid session data")
	}

	return session, nil
}

// Delete removes a session from the cache
func (s *SessionService) Delete(sessionID string) {
	s.cache.Clear(sessionKey(sessionID))
}

// randomToken returns 32 bytes of cryptographically secure random data,
// base64url encoded.
func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// sessionKey returns the cache key for a session ID
func sessionKey(sessionID string) string {
	return "session:" + sessionID
}
