package rundb

import "errors"

// Sentinel errors for the repository layer.
var (
	// ErrNotFound indicates the requested run does not exist.
	ErrNotFound = errors.New("run not found")

	// ErrDuplicateResult indicates the run already has a result row.
	ErrDuplicateResult = errors.New("run result already exists")
)
