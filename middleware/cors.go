// ABOUTME: CORS middleware for API cross-origin requests
// ABOUTME: Echoes allowed origins and handles preflight OPTIONS requests

package middleware

import "net/http"

// CORSWithConfig returns middleware that adds CORS headers for origins in
// the allow list. Requests from other origins (or with no Origin header)
// pass through without CORS headers, which makes browsers block the
// cross-origin read. Credentials are allowed because the API is cookie
// authenticated, which is also why the origin is echoed rather than "*".
func CORSWithConfig(allowedOrigins []string) func(http.HandlerFunc) http.HandlerFunc {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}

	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && allowed[origin] {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-CSRF-Token")
				w.Header().Set("Vary", "Origin")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next(w, r)
		}
	}
}
