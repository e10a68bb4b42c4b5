package eventdb

import (
	"time"

	"github.com/google/uuid"
	eventdomain "github.com/mint-edu/mint-backend/app/modules/event/domain"
	"github.com/uptrace/bun"
)

// Event is a scheduled simulation session identified by a human-entered code.
type Event struct {
	bun.BaseModel   `bun:"table:events,alias:e"`
	ID              uuid.UUID         `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	Code            string            `bun:"code,notnull" json:"code"`
	Name            string            `bun:"name,notnull" json:"name"`
	SimURL          string            `bun:"sim_url,notnull" json:"sim_url"`
	SimType         string            `bun:"sim_type,notnull" json:"sim_type"`
	ScenarioID      string            `bun:"scenario_id,nullzero" json:"scenario_id"`
	DurationMinutes int               `bun:"duration_minutes,notnull" json:"duration_minutes"`
	State           eventdomain.State `bun:"state,notnull" json:"state"`
	CreatedAt       time.Time         `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	StartsAt        *time.Time        `bun:"starts_at" json:"starts_at"`
	EndsAt          *time.Time        `bun:"ends_at" json:"ends_at"`
	StartedAt       *time.Time        `bun:"started_at" json:"started_at"`
	EndedAt         *time.Time        `bun:"ended_at" json:"ended_at"`
}

// Deadline returns when a live event should end, or false if it has not started.
func (e *Event) Deadline() (time.Time, bool) {
	if e.StartedAt == nil || e.DurationMinutes <= 0 {
		return time.Time{}, false
	}
	return e.StartedAt.Add(time.Duration(e.DurationMinutes) * time.Minute), true
}
