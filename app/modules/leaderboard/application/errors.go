package leaderboardservice

import "errors"

// ErrEventNotFound is returned when no event matches the code.
var ErrEventNotFound = errors.New("Event not found")
