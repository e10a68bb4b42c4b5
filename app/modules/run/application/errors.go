package runservice

import "errors"

var (
	// ErrMissingEventCode is returned when a run is requested without an event code.
	ErrMissingEventCode = errors.New("eventCode is required")

	// ErrMissingUserID is returned when no user id can be resolved for a new run.
	ErrMissingUserID = errors.New("userId is required")

	// ErrEventNotFound is returned when no event matches the requested code.
	ErrEventNotFound = errors.New("Event not found for provided code")

	// ErrMissingRunID is returned when a submission has no run id.
	ErrMissingRunID = errors.New("runId is required")

	// ErrInvalidScore is returned when the score is absent or not a JSON number.
	ErrInvalidScore = errors.New("score must be provided as a number")

	// ErrRunNotFound is returned for unknown or malformed run ids.
	ErrRunNotFound = errors.New("Run not found")

	// ErrSimURLNotConfigured is returned when neither the event nor the config
	// provides a simulation URL to launch.
	ErrSimURLNotConfigured = errors.New("no simulation URL is configured for this event")

	// ErrAlreadySubmitted is returned for a second submission on the same run.
	ErrAlreadySubmitted = errors.New("Results already submitted for this run")
)
