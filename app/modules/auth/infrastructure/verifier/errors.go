package authverifier

import "errors"

var (
	// ErrMissingToken is returned when no bearer token is supplied.
	ErrMissingToken = errors.New("missing bearer token")

	// ErrInvalidToken is returned when the token is malformed or rejected.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken is returned when the token has expired.
	ErrExpiredToken = errors.New("token has expired")

	// ErrInvalidSignature is returned when the token signature is invalid.
	ErrInvalidSignature = errors.New("invalid token signature")

	// ErrNotConfigured is returned by the verifier used when neither a JWT
	// secret nor an auth service URL is configured.
	ErrNotConfigured = errors.New("token verification is not configured")
)
