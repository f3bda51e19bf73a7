// ABOUTME: Auth handlers implementing the BFF session pattern for TMDB
// ABOUTME: Handles login, logout, guest sessions with httpOnly cookies

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/markalston/tmdb-session-broker/middleware"
	"github.com/markalston/tmdb-session-broker/models"
	"github.com/markalston/tmdb-session-broker/services"
	"github.com/markalston/tmdb-session-broker/tmdb"
)

const (
	sessionCookieName = "TMDB_SESSION"
	csrfCookieName    = "TMDB_CSRF"
)

// Login runs the TMDB login pipeline (request token, validate with
// credentials, create session) and stores the resulting session ID
// server-side. Only an opaque broker session cookie reaches the client.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := services.ValidateCredentials(req.Username, req.Password); err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	session, err := h.authClient.LoginAndCreateSession(r.Context(), req.Username, req.Password)
	if err != nil {
		h.writeLoginError(w, req.Username, err)
		return
	}

	sessionID, err := h.sessionService.Create(req.Username, session.SessionID)
	if err != nil {
		slog.Error("Failed to create session", "error", err)
		h.writeError(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	// The client gets the broker session ID and a CSRF token,
	// never the TMDB session ID
	storedSession, err := h.sessionService.Get(sessionID)
	if err != nil {
		slog.Error("Failed to load created session", "error", err)
		h.writeError(w, "Failed to create session", http.StatusInternalServerError)
		return
	}
	h.setSessionCookies(w, sessionID, storedSession.CSRFToken)

	slog.Info("Login succeeded", "username", req.Username)
	h.writeJSON(w, http.StatusOK, models.LoginResponse{
		Success:  true,
		Username: req.Username,
	})
}

// writeLoginError maps client pipeline errors to HTTP responses.
func (h *Handler) writeLoginError(w http.ResponseWriter, username string, err error) {
	var apiErr *tmdb.APIError
	switch {
	case errors.Is(err, tmdb.ErrLoginFailed), errors.Is(err, tmdb.ErrInvalidToken):
		slog.Warn("Login failed", "username", username, "error", err)
		h.writeJSON(w, http.StatusUnauthorized, models.LoginResponse{
			Success: false,
			Error:   "Invalid credentials",
		})
	case errors.As(err, &apiErr):
		slog.Error("TMDB API error during login", "error", err)
		h.writeError(w, "Authentication service unavailable", http.StatusBadGateway)
	default:
		slog.Error("Login pipeline failed", "error", err)
		h.writeError(w, "Authentication failed", http.StatusInternalServerError)
	}
}

// Me returns the current user's authentication status
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	session := h.getSessionFromCookie(r)
	if session == nil {
		h.writeJSON(w, http.StatusOK, models.UserInfoResponse{
			Authenticated: false,
		})
		return
	}

	h.writeJSON(w, http.StatusOK, models.UserInfoResponse{
		Authenticated: true,
		Username:      session.Username,
	})
}

// Logout clears the session and cookies
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	cookie, err := r.Cookie(sessionCookieName)
	if err == nil && cookie.Value != "" {
		if h.sessionService != nil {
			h.sessionService.Delete(cookie.Value)
		}
	}

	h.clearSessionCookies(w)

	h.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Guest issues a guest session for anonymous rating. Sessions are
// deduplicated per client IP so repeated requests from one device reuse
// the same guest session.
func (h *Handler) Guest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, err := h.guestService.Get(r.Context(), middleware.ClientIP(r))
	if err != nil {
		var apiErr *tmdb.APIError
		if errors.As(err, &apiErr) {
			slog.Error("TMDB API error creating guest session", "error", err)
			h.writeError(w, "Authentication service unavailable", http.StatusBadGateway)
			return
		}
		slog.Error("Guest session creation failed", "error", err)
		h.writeError(w, "Failed to create guest session", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, models.GuestSessionResponse{
		Success:        true,
		GuestSessionID: session.GuestSessionID,
		ExpiresAt:      session.ExpiresAt,
	})
}

// getSessionFromCookie retrieves the session from the request cookie
func (h *Handler) getSessionFromCookie(r *http.Request) *models.Session {
	if h.sessionService == nil {
		return nil
	}

	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return nil
	}

	session, err := h.sessionService.Get(cookie.Value)
	if err != nil {
		return nil
	}

	return session
}

// setSessionCookies sets the httpOnly session cookie and the readable
// CSRF cookie for the double-submit pattern.
func (h *Handler) setSessionCookies(w http.ResponseWriter, sessionID, csrfToken string) {
	secure := true
	maxAge := 86400
	if h.cfg != nil {
		secure = h.cfg.CookieSecure
		maxAge = h.cfg.SessionTTL
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sessionID,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   maxAge,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     csrfCookieName,
		Value:    csrfToken,
		HttpOnly: false, // JS must read it to send X-CSRF-Token
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   maxAge,
	})
}

// clearSessionCookies removes the session and CSRF cookies
func (h *Handler) clearSessionCookies(w http.ResponseWriter) {
	secure := true
	if h.cfg != nil {
		secure = h.cfg.CookieSecure
	}

	for _, name := range []string{sessionCookieName, csrfCookieName} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			HttpOnly: name == sessionCookieName,
			Secure:   secure,
			SameSite: http.SameSiteStrictMode,
			Path:     "/",
			MaxAge:   -1, // Delete cookie
		})
	}
}
