package eventservice

import (
	"context"
	"time"

	"github.com/google/uuid"
	eventdb "github.com/mint-edu/mint-backend/app/modules/event/infrastructure/repositories"
)

// Service defines the event lifecycle operations.
type Service interface {
	// CreateEvent validates the request, applies defaults and inserts the event.
	CreateEvent(ctx context.Context, req CreateEventRequest) (*eventdb.Event, error)

	// ListEvents returns every event, newest first.
	ListEvents(ctx context.Context) ([]eventdb.Event, error)

	// ListPublicEvents returns active, live and paused events, newest first.
	ListPublicEvents(ctx context.Context) ([]eventdb.Event, error)

	// UpdateState moves an event along the lifecycle graph.
	UpdateState(ctx context.Context, code, state string) (*eventdb.Event, error)

	// SimAdminLink returns a signed admin URL for the event's simulation.
	SimAdminLink(ctx context.Context, code, adminEmail string) (string, error)

	// AutoEndEvent ends a live or paused event whose duration has elapsed.
	// It reports whether the event was ended.
	AutoEndEvent(ctx context.Context, eventID uuid.UUID) (bool, error)

	// ListAutoEndJobs returns the auto-end jobs recorded for an event.
	ListAutoEndJobs(ctx context.Context, code string) ([]AutoEndJob, error)
}

// AutoEndScheduler schedules the automatic end of a live event.
type AutoEndScheduler interface {
	ScheduleAutoEnd(ctx context.Context, eventID uuid.UUID, at time.Time) error
	GetScheduledJobs(ctx context.Context, eventID uuid.UUID) ([]AutoEndJob, error)
}

// AutoEndJob describes one queued auto-end job.
type AutoEndJob struct {
	ID          int64  `json:"id"`
	Kind        string `json:"kind"`
	EventID     string `json:"eventId"`
	State       string `json:"state"`
	ScheduledAt string `json:"scheduledAt"`
	Attempt     int    `json:"attempt"`
}

// CreateEventRequest carries the admin-supplied event fields.
// Empty strings and a nil duration mean "use the default".
type CreateEventRequest struct {
	Code            string
	Name            string
	SimURL          string
	SimType         string
	ScenarioID      string
	DurationMinutes *int
	State           string
	StartsAt        string
	EndsAt          string
	CreatedBy       string
}

// Config holds event defaults and sim admin link settings.
type Config struct {
	DefaultSimURL   string
	SimAdminToken   string
	SimAdminLinkTTL time.Duration
}

const (
	DefaultSimType         = "portfolio_sim"
	DefaultScenarioID      = "portfolio_basics"
	DefaultDurationMinutes = 45
)
