package eventbus

import "time"

// Lifecycle topics. Every subject lives under the "mint." prefix captured by StreamName.
const (
	EventCreatedTopic      = "mint.event.created.v1"
	EventStateChangedTopic = "mint.event.state_changed.v1"
	RunCreatedTopic        = "mint.run.created.v1"
	RunFinishedTopic       = "mint.run.finished.v1"
)

// EventCreatedPayload is published after an admin creates an event.
type EventCreatedPayload struct {
	EventID   string    `json:"event_id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	State     string    `json:"state"`
	CreatedBy string    `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// EventStateChangedPayload is published when an event moves between states.
type EventStateChangedPayload struct {
	EventID   string    `json:"event_id"`
	Code      string    `json:"code"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Automatic bool      `json:"automatic"`
	ChangedAt time.Time `json:"changed_at"`
}

// RunCreatedPayload is published when a player joins an event.
type RunCreatedPayload struct {
	RunID     string `json:"run_id"`
	EventID   string `json:"event_id"`
	EventCode string `json:"event_code"`
	UserID    string `json:"user_id"`
}

// RunFinishedPayload is published once results are recorded for a run.
type RunFinishedPayload struct {
	RunID   string   `json:"run_id"`
	EventID string   `json:"event_id"`
	Score   float64  `json:"score"`
	PnL     *float64 `json:"pnl,omitempty"`
}
