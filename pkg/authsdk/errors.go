package authsdk

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized is returned when the service refuses to issue a token:
	// the session is missing or expired, or the audience or origin is not allowed.
	ErrUnauthorized = errors.New("authsdk: unauthorized")

	// ErrLoginFailed is returned when the username or password was rejected.
	ErrLoginFailed = errors.New("authsdk: wrong username or password")

	// ErrCallbackRejected is returned when the callback URL is not allowed.
	ErrCallbackRejected = errors.New("authsdk: callback url not allowed")
)

// StatusError is returned for responses the SDK has no specific error for.
type StatusError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("authsdk: HTTP %d: %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("authsdk: HTTP %d: %s", e.StatusCode, e.Body)
}

// parseErrorResponse maps an HTTP error response onto a typed error.
// Returns nil if the response indicates success (2xx status code).
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrCallbackRejected, body)
	}

	return &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
}
