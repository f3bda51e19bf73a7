// ABOUTME: End-to-end tests for the full authentication flow
// ABOUTME: Exercises login, session cookies, CSRF, logout, and guest sessions

package e2e

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
)

func TestE2E_LoginLogoutFlow(t *testing.T) {
	tmdb := newFakeTMDB()
	defer tmdb.Close()
	withTestEnv(t, tmdb.URL, nil)

	broker := newBroker(t)

	// Login
	resp, err := http.Post(broker.URL+"/api/v1/auth/login", "application/json",
		strings.NewReader(`{"username":"alice","password":"s3cret"}`))
	if err != nil {
		t.Fatalf("login request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d, want 200", resp.StatusCode)
	}

	sessionCookie := cookieByName(resp.Cookies(), "TMDB_SESSION")
	csrfCookie := cookieByName(resp.Cookies(), "TMDB_CSRF")
	if sessionCookie == nil || csrfCookie == nil {
		t.Fatal("login must set TMDB_SESSION and TMDB_CSRF cookies")
	}
	if !sessionCookie.HttpOnly {
		t.Error("session cookie must be httpOnly")
	}
	if csrfCookie.HttpOnly {
		t.Error("CSRF cookie must be readable by JS")
	}

	// Me with session cookie
	meReq, _ := http.NewRequest(http.MethodGet, broker.URL+"/api/v1/auth/me", nil)
	meReq.AddCookie(sessionCookie)
	meResp, err := http.DefaultClient.Do(meReq)
	if err != nil {
		t.Fatalf("me request failed: %v", err)
	}
	defer meResp.Body.Close()

	var me struct {
		Authenticated bool   `json:"authenticated"`
		Username      string `json:"username"`
	}
	if err := json.NewDecoder(meResp.Body).Decode(&me); err != nil {
		t.Fatalf("failed to decode me response: %v", err)
	}
	if !me.Authenticated || me.Username != "alice" {
		t.Errorf("me = %+v, want authenticated alice", me)
	}

	// Logout without CSRF token is rejected
	logoutReq, _ := http.NewRequest(http.MethodPost, broker.URL+"/api/v1/auth/logout", nil)
	logoutReq.AddCookie(sessionCookie)
	logoutReq.AddCookie(csrfCookie)
	noCSRF, err := http.DefaultClient.Do(logoutReq)
	if err != nil {
		t.Fatalf("logout request failed: %v", err)
	}
	noCSRF.Body.Close()
	if noCSRF.StatusCode != http.StatusForbidden {
		t.Errorf("logout without CSRF header status = %d, want 403", noCSRF.StatusCode)
	}

	// Logout with CSRF token succeeds
	logoutReq, _ = http.NewRequest(http.MethodPost, broker.URL+"/api/v1/auth/logout", nil)
	logoutReq.AddCookie(sessionCookie)
	logoutReq.AddCookie(csrfCookie)
	logoutReq.Header.Set("X-CSRF-Token", csrfCookie.Value)
	logoutResp, err := http.DefaultClient.Do(logoutReq)
	if err != nil {
		t.Fatalf("logout request failed: %v", err)
	}
	logoutResp.Body.Close()
	if logoutResp.StatusCode != http.StatusOK {
		t.Errorf("logout status = %d, want 200", logoutResp.StatusCode)
	}

	// Session is gone
	meReq, _ = http.NewRequest(http.MethodGet, broker.URL+"/api/v1/auth/me", nil)
	meReq.AddCookie(sessionCookie)
	meResp2, err := http.DefaultClient.Do(meReq)
	if err != nil {
		t.Fatalf("me request failed: %v", err)
	}
	defer meResp2.Body.Close()

	var meAfter struct {
		Authenticated bool `json:"authenticated"`
	}
	if err := json.NewDecoder(meResp2.Body).Decode(&meAfter); err != nil {
		t.Fatalf("failed to decode me response: %v", err)
	}
	if meAfter.Authenticated {
		t.Error("session must be invalid after logout")
	}
}

func TestE2E_LoginRejected(t *testing.T) {
	tmdb := newFakeTMDB()
	defer tmdb.Close()
	tmdb.validateBody = `{"success":false}`
	withTestEnv(t, tmdb.URL, nil)

	broker := newBroker(t)

	resp, err := http.Post(broker.URL+"/api/v1/auth/login", "application/json",
		strings.NewReader(`{"username":"alice","password":"wrong"}`))
	if err != nil {
		t.Fatalf("login request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("login status = %d, want 401", resp.StatusCode)
	}
	if cookieByName(resp.Cookies(), "TMDB_SESSION") != nil {
		t.Error("failed login must not set a session cookie")
	}
}

func TestE2E_GuestSession(t *testing.T) {
	tmdb := newFakeTMDB()
	defer tmdb.Close()
	withTestEnv(t, tmdb.URL, nil)

	broker := newBroker(t)

	for i := 0; i < 3; i++ {
		resp, err := http.Post(broker.URL+"/api/v1/auth/guest", "application/json", nil)
		if err != nil {
			t.Fatalf("guest request failed: %v", err)
		}

		var guest struct {
			Success        bool   `json:"success"`
			GuestSessionID string `json:"guest_session_id"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&guest); err != nil {
			t.Fatalf("failed to decode guest response: %v", err)
		}
		resp.Body.Close()

		if !guest.Success || guest.GuestSessionID != "guest-1" {
			t.Errorf("guest = %+v", guest)
		}
	}

	// Same client IP, so the upstream session is created once
	if tmdb.guestCalls != 1 {
		t.Errorf("guest session calls = %d, want 1", tmdb.guestCalls)
	}
}

func TestE2E_AuthRateLimit(t *testing.T) {
	tmdb := newFakeTMDB()
	defer tmdb.Close()
	withTestEnv(t, tmdb.URL, map[string]string{
		"RATE_LIMIT_ENABLED": "true",
		"RATE_LIMIT_AUTH":    "2",
	})

	broker := newBroker(t)

	var last int
	for i := 0; i < 3; i++ {
		resp, err := http.Post(broker.URL+"/api/v1/auth/login", "application/json",
			strings.NewReader(`{"username":"alice","password":"s3cret"}`))
		if err != nil {
			t.Fatalf("login request failed: %v", err)
		}
		resp.Body.Close()
		last = resp.StatusCode
	}

	if last != http.StatusTooManyRequests {
		t.Errorf("third login status = %d, want 429", last)
	}
}

func TestE2E_Health(t *testing.T) {
	tmdb := newFakeTMDB()
	defer tmdb.Close()
	withTestEnv(t, tmdb.URL, nil)

	broker := newBroker(t)

	resp, err := http.Get(broker.URL + "/api/v1/health")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health status = %d, want 200", resp.StatusCode)
	}

	var health map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatalf("failed to decode health response: %v", err)
	}
	if health["tmdb_api"] != "ok" {
		t.Errorf("tmdb_api = %v, want ok", health["tmdb_api"])
	}
}

func TestE2E_CORSPreflight(t *testing.T) {
	tmdb := newFakeTMDB()
	defer tmdb.Close()
	withTestEnv(t, tmdb.URL, map[string]string{
		"CORS_ALLOWED_ORIGINS": "http://localhost:3000",
	})

	broker := newBroker(t)

	req, _ := http.NewRequest(http.MethodOptions, broker.URL+"/api/v1/auth/login", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("preflight request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Allow-Origin = %q", got)
	}
}
