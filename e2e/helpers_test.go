// ABOUTME: Shared helpers for end-to-end tests
// ABOUTME: Builds the full broker stack against a fake TMDB server

package e2e

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/markalston/tmdb-session-broker/cache"
	"github.com/markalston/tmdb-session-broker/config"
	"github.com/markalston/tmdb-session-broker/handlers"
	"github.com/markalston/tmdb-session-broker/middleware"
)

// fakeTMDB simulates the TMDB authentication endpoints with switchable
// per-endpoint responses.
type fakeTMDB struct {
	*httptest.Server
	validateBody string
	guestCalls   int
}

func newFakeTMDB() *fakeTMDB {
	f := &fakeTMDB{
		validateBody: `{"success":true,"expires_at":"2026-08-26 17:04:39 UTC","request_token":"tok-1"}`,
	}

	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/authentication/token/new"):
			w.Write([]byte(`{"success":true,"expires_at":"2026-08-26 17:04:39 UTC","request_token":"tok-1"}`))
		case strings.HasSuffix(r.URL.Path, "/authentication/token/validate_with_login"):
			w.Write([]byte(f.validateBody))
		case strings.HasSuffix(r.URL.Path, "/authentication/session/new"):
			w.Write([]byte(`{"success":true,"session_id":"tmdb-session-1"}`))
		case strings.HasSuffix(r.URL.Path, "/authentication/guest_session/new"):
			f.guestCalls++
			w.Write([]byte(`{"success":true,"guest_session_id":"guest-1","expires_at":"2026-08-26 17:04:39 UTC"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	return f
}

// withTestEnv sets the environment a broker needs, pointing TMDB at the
// given fake server. Extra variables override or extend the defaults.
func withTestEnv(t *testing.T, tmdbURL string, extra map[string]string) {
	t.Helper()

	env := map[string]string{
		"TMDB_API_URL":       tmdbURL,
		"TMDB_API_KEY":       "test-api-key",
		"COOKIE_SECURE":      "false",
		"RATE_LIMIT_ENABLED": "false",
	}
	for k, v := range extra {
		env[k] = v
	}
	for k, v := range env {
		t.Setenv(k, v)
	}
}

// newBroker assembles the full middleware and handler stack the way main
// does and serves it from an httptest server.
func newBroker(t *testing.T) *httptest.Server {
	t.Helper()

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("config.Load failed: %v", err)
	}

	c := cache.New(time.Duration(cfg.CacheTTL) * time.Second)
	handler := handlers.NewHandler(cfg, c)

	var authLimiter, defaultLimiter *middleware.RateLimiter
	if cfg.RateLimitEnabled {
		authLimiter = middleware.NewRateLimiter(cfg.RateLimitAuth, time.Minute)
		defaultLimiter = middleware.NewRateLimiter(cfg.RateLimitDefault, time.Minute)
	}

	corsMiddleware := middleware.CORSWithConfig(cfg.CORSAllowedOrigins)
	csrfMiddleware := middleware.CSRF()

	mux := http.NewServeMux()
	for _, route := range handler.Routes() {
		limiter := defaultLimiter
		keyFunc := middleware.SessionKey
		if route.Auth {
			limiter = authLimiter
			keyFunc = middleware.ClientIP
		}

		mux.HandleFunc(route.Path, middleware.Chain(
			route.Handler,
			middleware.LogRequest,
			corsMiddleware,
			csrfMiddleware,
			middleware.RateLimit(limiter, keyFunc),
		))
	}

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func cookieByName(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}
