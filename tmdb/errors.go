// ABOUTME: Error taxonomy for the TMDB authentication client
// ABOUTME: Separates transport failures from locally detected auth failures

package tmdb

import (
	"errors"
	"fmt"
)

// ErrInvalidToken is returned when a request token reports success=false.
// CreateSession checks this locally before issuing any network call.
var ErrInvalidToken = errors.New("request token was not successful")

// ErrLoginFailed is returned when credential validation reports
// success=false on an otherwise healthy response.
var ErrLoginFailed = errors.New("login validation failed")

// APIError represents a transport or HTTP-level failure talking to TMDB.
// For non-2xx responses, StatusCode and StatusMessage carry the TMDB
// status payload when the body parses as one. For requests that never
// completed, Err holds the underlying transport error and HTTPStatus is
// zero.
type APIError struct {
	HTTPStatus    int
	StatusCode    int
	StatusMessage string
	Err           error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("tmdb: request failed: %v", e.Err)
	}
	if e.StatusMessage != "" {
		return fmt.Sprintf("tmdb: status %d: %s (code %d)", e.HTTPStatus, e.StatusMessage, e.StatusCode)
	}
	return fmt.Sprintf("tmdb: status %d", e.HTTPStatus)
}

func (e *APIError) Unwrap() error {
	return e.Err
}
