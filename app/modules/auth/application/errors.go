package authservice

import "errors"

var (
	// ErrUnauthorized is returned when the bearer token is missing or rejected.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is returned when the caller is not allowlisted.
	ErrForbidden = errors.New("forbidden")
)
