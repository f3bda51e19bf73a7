// ABOUTME: Main entry point for the TMDB session broker API server
// ABOUTME: Wires config, cache, handlers, and middleware into an HTTP server

package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/markalston/tmdb-session-broker/cache"
	"github.com/markalston/tmdb-session-broker/config"
	"github.com/markalston/tmdb-session-broker/handlers"
	"github.com/markalston/tmdb-session-broker/logger"
	"github.com/markalston/tmdb-session-broker/middleware"
)

func main() {
	// .env is optional; real deployments set the environment directly
	if err := godotenv.Load(); err == nil {
		slog.Debug("Loaded environment from .env")
	}

	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	c := cache.New(time.Duration(cfg.CacheTTL) * time.Second)
	handler := handlers.NewHandler(cfg, c)

	// Rate limiters: tighter limit for auth endpoints to slow down
	// credential stuffing, default limit for everything else
	var authLimiter, defaultLimiter *middleware.RateLimiter
	if cfg.RateLimitEnabled {
		authLimiter = middleware.NewRateLimiter(cfg.RateLimitAuth, time.Minute)
		defaultLimiter = middleware.NewRateLimiter(cfg.RateLimitDefault, time.Minute)
	} else {
		slog.Warn("Rate limiting is disabled")
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

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	slog.Info("Starting TMDB session broker",
		"port", cfg.Port,
		"tmdb_api", cfg.TMDBAPIURL,
		"rate_limiting", cfg.RateLimitEnabled)

	if err := server.ListenAndServe(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
