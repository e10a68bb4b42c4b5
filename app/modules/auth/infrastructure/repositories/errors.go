package authdb

import "errors"

// ErrNotFound is returned when removing an entry that does not exist.
var ErrNotFound = errors.New("allowlist entry not found")
