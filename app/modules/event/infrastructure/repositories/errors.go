package eventdb

import "errors"

// Sentinel errors for the repository layer.
var (
	// ErrNotFound indicates the requested event does not exist.
	ErrNotFound = errors.New("event not found")

	// ErrDuplicateCode indicates the unique index on events.code rejected an insert.
	ErrDuplicateCode = errors.New("event code already exists")
)
