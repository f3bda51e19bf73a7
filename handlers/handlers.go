// ABOUTME: HTTP handler wiring for the session broker API
// ABOUTME: Holds the TMDB client, session services, and JSON helpers

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/markalston/tmdb-session-broker/cache"
	"github.com/markalston/tmdb-session-broker/config"
	"github.com/markalston/tmdb-session-broker/models"
	"github.com/markalston/tmdb-session-broker/services"
	"github.com/markalston/tmdb-session-broker/tmdb"
)

type Handler struct {
	cfg            *config.Config
	cache          *cache.Cache
	authClient     *tmdb.Client
	sessionService *services.SessionService
	guestService   *services.GuestSessionService
}

func NewHandler(cfg *config.Config, c *cache.Cache) *Handler {
	h := &Handler{
		cfg:   cfg,
		cache: c,
	}

	// Config is optional (for testing)
	if cfg != nil {
		h.authClient = tmdb.New(cfg.TMDBAPIKey, tmdb.Options{
			BaseURL:           cfg.TMDBAPIURL,
			Timeout:           cfg.TMDBTimeout(),
			SkipSSLValidation: cfg.TMDBSkipSSLValidation,
			AllProxy:          cfg.TMDBAllProxy,
		})
		h.sessionService = services.NewSessionService(c, cfg.SessionTTLDuration())
		h.guestService = services.NewGuestSessionService(h.authClient, c)
	}

	return h
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	writeError(w, message, code)
}

func writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(models.ErrorResponse{
		Error: message,
		Code:  code,
	})
}
