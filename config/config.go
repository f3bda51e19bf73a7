// ABOUTME: Configuration loader for the session broker service
// ABOUTME: Loads settings from environment variables with defaults

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server
	Port               string
	CacheTTL           int      // seconds, default cache TTL
	SessionTTL         int      // seconds, server-side session lifetime
	CORSAllowedOrigins []string // allowed CORS origins (empty = block all cross-origin)
	CookieSecure       bool     // Set Secure flag on session cookies (default: true)

	// Rate Limiting
	RateLimitEnabled bool // Enable rate limiting (default: true)
	RateLimitAuth    int  // Requests per minute for auth endpoints (default: 5)
	RateLimitDefault int  // Requests per minute for all other endpoints (default: 100)

	// TMDB API
	TMDBAPIURL            string
	TMDBAPIKey            string
	TMDBTimeoutSeconds    int    // per-request timeout (default 30)
	TMDBSkipSSLValidation bool   // explicit opt-in for insecure connections
	TMDBAllProxy          string // ssh+socks5 jumpbox for egress, optional
}

// TMDBTimeout returns the per-request timeout as a duration.
func (c *Config) TMDBTimeout() time.Duration {
	return time.Duration(c.TMDBTimeoutSeconds) * time.Second
}

// SessionTTLDuration returns the session lifetime as a duration.
func (c *Config) SessionTTLDuration() time.Duration {
	return time.Duration(c.SessionTTL) * time.Second
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		CacheTTL:           getEnvInt("CACHE_TTL", 300),
		SessionTTL:         getEnvInt("SESSION_TTL", 86400),
		CORSAllowedOrigins: getEnvStringList("CORS_ALLOWED_ORIGINS"),
		CookieSecure:       getEnvBool("COOKIE_SECURE", true),

		RateLimitEnabled: getEnvBool("RATE_LIMIT_ENABLED", true),
		RateLimitAuth:    getEnvInt("RATE_LIMIT_AUTH", 5),
		RateLimitDefault: getEnvInt("RATE_LIMIT_DEFAULT", 100),

		TMDBAPIURL:            ensureScheme(getEnv("TMDB_API_URL", "https://api.themoviedb.org/3")),
		TMDBAPIKey:            os.Getenv("TMDB_API_KEY"),
		TMDBTimeoutSeconds:    getEnvInt("TMDB_TIMEOUT", 30),
		TMDBSkipSSLValidation: getEnvBool("TMDB_SKIP_SSL_VALIDATION", false),
		TMDBAllProxy:          os.Getenv("TMDB_ALL_PROXY"),
	}

	// Validate required fields
	if cfg.TMDBAPIKey == "" {
		return nil, fmt.Errorf("TMDB_API_KEY is required")
	}

	// Validate rate limit values
	for _, rl := range []struct {
		name  string
		value int
	}{
		{"RATE_LIMIT_AUTH", cfg.RateLimitAuth},
		{"RATE_LIMIT_DEFAULT", cfg.RateLimitDefault},
	} {
		if rl.value < 1 || rl.value > 10000 {
			return nil, fmt.Errorf("%s must be between 1 and 10000, got %d", rl.name, rl.value)
		}
	}

	if cfg.TMDBTimeoutSeconds < 1 || cfg.TMDBTimeoutSeconds > 300 {
		return nil, fmt.Errorf("TMDB_TIMEOUT must be between 1 and 300 seconds, got %d", cfg.TMDBTimeoutSeconds)
	}
	if cfg.SessionTTL < 60 {
		return nil, fmt.Errorf("SESSION_TTL must be at least 60 seconds, got %d", cfg.SessionTTL)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvStringList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// ensureScheme adds https:// prefix if the URL has no scheme
func ensureScheme(url string) string {
	if url == "" {
		return url
	}
	if !strings.Contains(url, "://") {
		return "https://" + url
	}
	return url
}
