// ABOUTME: Guest session issuance with per-client deduplication
// ABOUTME: Caches guest sessions and collapses concurrent creation requests

package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/markalston/tmdb-session-broker/cache"
	"github.com/markalston/tmdb-session-broker/tmdb"
)

// guestSessionTTL is shorter than TMDB's 24h idle discard so cached
// entries drop out before the remote side forgets them.
const guestSessionTTL = 20 * time.Hour

// guestSessionCreator is the slice of the TMDB client the service needs.
type guestSessionCreator interface {
	CreateGuestSession(ctx context.Context) (*tmdb.Session, error)
}

// GuestSessionService issues guest sessions, at most one per client key.
// TMDB asks integrators to create a single guest session per user or
// device; the cache plus singleflight enforce that even under
// concurrent requests from the same client.
type GuestSessionService struct {
	client  guestSessionCreator
	cache   *cache.Cache
	sfGroup singleflight.Group
}

// NewGuestSessionService creates a guest session service backed by the
// given TMDB client and cache.
func NewGuestSessionService(client guestSessionCreator, c *cache.Cache) *GuestSessionService {
	return &GuestSessionService{client: client, cache: c}
}

// Get returns the cached guest session for clientKey, creating one via
// the TMDB API if none exists. Concurrent callers with the same key
// share a single creation request.
func (g *GuestSessionService) Get(ctx context.Context, clientKey string) (*tmdb.Session, error) {
	if v, ok := g.cache.Get(guestKey(clientKey)); ok {
		return v.(*tmdb.Session), nil
	}

	v, err, _ := g.sfGroup.Do(clientKey, func() (interface{}, error) {
		// Re-check under the flight: a previous flight may have
		// populated the cache between our miss and Do.
		if cached, ok := g.cache.Get(guestKey(clientKey)); ok {
			return cached, nil
		}

		session, err := g.client.CreateGuestSession(ctx)
		if err != nil {
			return nil, err
		}
		if !session.Success {
			return nil, fmt.Errorf("guest session was not successful")
		}

		g.cache.SetWithTTL(guestKey(clientKey), session, guestSessionTTL)
		return session, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*tmdb.Session), nil
}

// guestKey returns the cache key for a client's guest session
func guestKey(clientKey string) string {
	return "guest:" + clientKey
}
