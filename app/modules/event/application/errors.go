package eventservice

import "errors"

var (
	// ErrMissingFields is returned when code or name is blank on create.
	ErrMissingFields = errors.New("code and name are required")

	// ErrInvalidState is returned for an unknown state name.
	ErrInvalidState = errors.New("invalid event state")

	// ErrInvalidInitialState is returned when an event is created past the active state.
	ErrInvalidInitialState = errors.New("events can only be created in draft or active state")

	// ErrInvalidDuration is returned for a non-positive duration.
	ErrInvalidDuration = errors.New("durationMinutes must be a positive integer")

	// ErrSimURLNotConfigured is returned when neither the event nor the config
	// provides a simulation URL.
	ErrSimURLNotConfigured = errors.New("no simulation URL is configured for this event")

	// ErrInvalidSimURL is returned when the simulation URL is not an absolute http(s) URL.
	ErrInvalidSimURL = errors.New("simUrl must be an absolute http(s) URL")

	// ErrInvalidSchedule is returned when startsAt/endsAt cannot be parsed or are out of order.
	ErrInvalidSchedule = errors.New("invalid event schedule")

	// ErrEventNotFound is returned when no event matches the code.
	ErrEventNotFound = errors.New("event not found")

	// ErrDuplicateCode is returned when another event already uses the code.
	ErrDuplicateCode = errors.New("event code already exists")

	// ErrInvalidTransition is returned when the requested state is not reachable from the current one.
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrMissingEventCode is returned when an event code is required but blank.
	ErrMissingEventCode = errors.New("eventCode is required")

	// ErrSimLinkNotConfigured is returned when no sim admin signing token is configured.
	ErrSimLinkNotConfigured = errors.New("sim admin link is not configured")
)
