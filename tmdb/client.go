// ABOUTME: TMDB authentication API client
// ABOUTME: Sequences request token, login validation, session, and guest session calls

package tmdb

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the TMDB v3 API root.
const DefaultBaseURL = "https://api.themoviedb.org/3"

// Client calls the TMDB authentication endpoints. It holds no mutable
// state, so a single instance is safe for concurrent use.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Options configures optional client behavior. The zero value gives the
// production defaults.
type Options struct {
	// BaseURL overrides DefaultBaseURL. Useful for testing.
	BaseURL string
	// Timeout applies per request. Zero means 30 seconds.
	Timeout time.Duration
	// SkipSSLValidation disables certificate verification. Explicit
	// opt-in for environments with intercepting proxies.
	SkipSSLValidation bool
	// AllProxy routes requests through an SSH+SOCKS5 jumpbox when set.
	// Format: ssh+socks5://user@host:port?private-key=/path/to/key
	AllProxy string
	// HTTPClient replaces the constructed client entirely, ignoring the
	// transport options above.
	HTTPClient *http.Client
}

// New creates a TMDB authentication client. The API key is sent as the
// api_key query parameter on every request.
func New(apiKey string, opts Options) *Client {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}

		transport := &http.Transport{
			TLSClientConfig:     &tls.Config{InsecureSkipVerify: opts.SkipSSLValidation},
			TLSHandshakeTimeout: 30 * time.Second,
		}
		if opts.AllProxy != "" {
			if dialContext := createSOCKS5DialContextFunc(opts.AllProxy); dialContext != nil {
				transport.DialContext = dialContext
			}
		}

		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: transport,
		}
	}

	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

// RequestToken generates a new request token for user-based
// authentication. Tokens expire server-side after 60 minutes.
func (c *Client) RequestToken(ctx context.Context) (*RequestToken, error) {
	var token RequestToken
	if err := c.get(ctx, "authentication/token/new", nil, &token); err != nil {
		return nil, err
	}
	return &token, nil
}

// ValidateLogin validates a request token with the user's credentials.
// The server performs the check; the returned token carries the outcome
// in its Success field. No local precondition is applied.
func (c *Client) ValidateLogin(ctx context.Context, token *RequestToken, username, password string) (*RequestToken, error) {
	params := url.Values{}
	params.Set("request_token", token.Token)
	params.Set("username", username)
	params.Set("password", password)

	var validated RequestToken
	if err := c.get(ctx, "authentication/token/validate_with_login", params, &validated); err != nil {
		return nil, err
	}
	return &validated, nil
}

// CreateSession exchanges a successful request token for a session ID.
// Returns ErrInvalidToken without issuing any network call when the
// token was not successful.
func (c *Client) CreateSession(ctx context.Context, token *RequestToken) (*Session, error) {
	if !token.Success {
		return nil, ErrInvalidToken
	}

	params := url.Values{}
	params.Set("request_token", token.Token)

	var session Session
	if err := c.get(ctx, "authentication/session/new", params, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// LoginAndCreateSession runs the full login pipeline: generate a request
// token, validate it with the credentials, then exchange the validated
// token for a session. The pipeline stops at the first failure; nothing
// is retried and no state is kept beyond the token threaded through.
func (c *Client) LoginAndCreateSession(ctx context.Context, username, password string) (*Session, error) {
	token, err := c.RequestToken(ctx)
	if err != nil {
		return nil, err
	}
	if !token.Success {
		return nil, ErrInvalidToken
	}

	validated, err := c.ValidateLogin(ctx, token, username, password)
	if err != nil {
		// TMDB reports rejected credentials as HTTP 401 (status code 30)
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatus == http.StatusUnauthorized {
			return nil, fmt.Errorf("%w: %s", ErrLoginFailed, apiErr.StatusMessage)
		}
		return nil, err
	}
	if !validated.Success {
		return nil, ErrLoginFailed
	}

	return c.CreateSession(ctx, validated)
}

// CreateGuestSession generates a guest session usable without a
// registered account. TMDB discards guest sessions after 24 hours
// without activity; that expiry is not enforced client-side.
func (c *Client) CreateGuestSession(ctx context.Context) (*Session, error) {
	var session Session
	if err := c.get(ctx, "authentication/guest_session/new", nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// get issues a GET request against the API and decodes the JSON body
// into out.
func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)

	endpoint := fmt.Sprintf("%s/%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() == context.Canceled {
			return &APIError{Err: fmt.Errorf("request canceled")}
		}
		if ctx.Err() == context.DeadlineExceeded {
			return &APIError{Err: fmt.Errorf("request timed out")}
		}
		return &APIError{Err: fmt.Errorf("cannot reach TMDB at %s: %w", c.baseURL, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apiErrorFromResponse(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to parse TMDB response: %w", err)
	}
	return nil
}

// tmdbStatus is the error payload TMDB returns on failed requests.
type tmdbStatus struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}

// apiErrorFromResponse builds an APIError from a non-2xx response,
// pulling in the TMDB status payload when the body carries one.
func apiErrorFromResponse(resp *http.Response) error {
	apiErr := &APIError{HTTPStatus: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return apiErr
	}

	var status tmdbStatus
	if json.Unmarshal(body, &status) == nil && status.StatusMessage != "" {
		apiErr.StatusCode = status.StatusCode
		apiErr.StatusMessage = status.StatusMessage
	}
	return apiErr
}
