// ABOUTME: HTTP handler for the health endpoint
// ABOUTME: Reports TMDB configuration state and cache entry count

package handlers

import (
	"net/http"
)

// Health returns API health status including TMDB config and cache state.
// It does not call TMDB; reachability problems surface as 502s on the
// auth endpoints instead.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	tmdbStatus := "not_configured"
	if h.cfg != nil && h.cfg.TMDBAPIKey != "" {
		tmdbStatus = "ok"
	}

	cacheEntries := 0
	if h.cache != nil {
		cacheEntries = h.cache.Len()
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"tmdb_api": tmdbStatus,
		"cache_status": map[string]int{
			"entries": cacheEntries,
		},
	})
}
