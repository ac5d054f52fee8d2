// Package common defines shared constants and sentinel errors used across
// the layers of the penguin database server. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound  = errors.New("not found")
	ErrorInvalidID = errors.New("invalid id format")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")

	// Validation errors.
	ErrorValidation = errors.New("validation error")

	// Auth errors (missing, malformed or rejected token).
	ErrTokenRequired = errors.New("access token required")
	ErrInvalidToken  = errors.New("invalid token")
	ErrTokenExpired  = errors.New("token expired")

	// Duplicate-registration errors. Raised from the storage unique
	// indexes, never from a pre-insert lookup.
	ErrorEmailTaken    = errors.New("user with this email already exists")
	ErrorUsernameTaken = errors.New("username already taken")
)
