package service

import (
	"errors"
	"fmt"
)

var (
	// ErrValidationRejected is returned when a callback URL, audience or
	// origin is not on the configured allow-list.
	ErrValidationRejected = errors.New("validation_rejected")

	// ErrAuthenticationFailed is returned for an unknown user or wrong
	// password. It deliberately does not say which.
	ErrAuthenticationFailed = errors.New("authentication_failed")

	// ErrSessionNotFound is returned when a session is absent or expired.
	ErrSessionNotFound = errors.New("session_not_found")

	// ErrPersistence is returned when durable storage could not be read or
	// written.
	ErrPersistence = errors.New("persistence_failure")
)

var (
	ErrCallbackNotAllowed = fmt.Errorf("%w: callback url not allowed", ErrValidationRejected)
	ErrAudienceNotAllowed = fmt.Errorf("%w: audience not allowed", ErrValidationRejected)
	ErrOriginNotAllowed   = fmt.Errorf("%w: origin not allowed", ErrValidationRejected)
)

func persistenceError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}
