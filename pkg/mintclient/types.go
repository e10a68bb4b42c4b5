package mintclient

import (
	"encoding/json"
	"time"
)

type Event struct {
	ID              string     `json:"id"`
	Code            string     `json:"code"`
	Name            string     `json:"name"`
	SimURL          string     `json:"sim_url"`
	SimType         string     `json:"sim_type"`
	ScenarioID      string     `json:"scenario_id"`
	DurationMinutes int        `json:"duration_minutes"`
	State           string     `json:"state"`
	CreatedAt       time.Time  `json:"created_at"`
	StartsAt        *time.Time `json:"starts_at"`
	EndsAt          *time.Time `json:"ends_at"`
	StartedAt       *time.Time `json:"started_at"`
	EndedAt         *time.Time `json:"ended_at"`
}

// CreateEventRequest mirrors the admin create body. StartsAt and EndsAt
// accept RFC3339 or natural language.
type CreateEventRequest struct {
	Code            string `json:"code"`
	Name            string `json:"name"`
	SimURL          string `json:"simUrl,omitempty"`
	SimType         string `json:"simType,omitempty"`
	ScenarioID      string `json:"scenarioId,omitempty"`
	DurationMinutes *int   `json:"durationMinutes,omitempty"`
	State           string `json:"state,omitempty"`
	StartsAt        string `json:"startsAt,omitempty"`
	EndsAt          string `json:"endsAt,omitempty"`
}

type CreateRunRequest struct {
	EventCode string `json:"eventCode"`
	UserID    string `json:"userId,omitempty"`
}

type CreateRunResponse struct {
	RunID  string `json:"runId"`
	SimURL string `json:"simUrl"`
}

type SubmitResultsRequest struct {
	RunID       string          `json:"runId"`
	Score       float64         `json:"score"`
	PnL         *float64        `json:"pnl,omitempty"`
	Sharpe      *float64        `json:"sharpe,omitempty"`
	MaxDrawdown *float64        `json:"max_drawdown,omitempty"`
	WinRate     *float64        `json:"win_rate,omitempty"`
	Extra       json.RawMessage `json:"extra,omitempty"`
}

type RunResult struct {
	RunID       string          `json:"run_id"`
	Score       float64         `json:"score"`
	PnL         *float64        `json:"pnl"`
	Sharpe      *float64        `json:"sharpe"`
	MaxDrawdown *float64        `json:"max_drawdown"`
	WinRate     *float64        `json:"win_rate"`
	Extra       json.RawMessage `json:"extra,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

type Run struct {
	ID         string     `json:"id"`
	EventID    string     `json:"event_id"`
	UserID     string     `json:"user_id,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	FinishedAt *time.Time `json:"finished_at"`
	Event      *Event     `json:"event,omitempty"`
	Result     *RunResult `json:"result"`
}

type LeaderboardRow struct {
	Rank        int       `json:"rank"`
	RunID       string    `json:"runId"`
	CreatedAt   time.Time `json:"createdAt"`
	Trader      string    `json:"trader"`
	Score       *float64  `json:"score"`
	PnL         *float64  `json:"pnl"`
	Sharpe      *float64  `json:"sharpe"`
	MaxDrawdown *float64  `json:"max_drawdown"`
	WinRate     *float64  `json:"win_rate"`
}

type Leaderboard struct {
	Event struct {
		Code string `json:"code"`
		Name string `json:"name"`
	} `json:"event"`
	Rows []LeaderboardRow `json:"rows"`
}

// AutoEndJob is a queued automatic end of a live event.
type AutoEndJob struct {
	ID          int64  `json:"id"`
	Kind        string `json:"kind"`
	EventID     string `json:"eventId"`
	State       string `json:"state"`
	ScheduledAt string `json:"scheduledAt"`
	Attempt     int    `json:"attempt"`
}

type AdminStatus struct {
	IsAdmin bool   `json:"isAdmin"`
	Detail  string `json:"detail"`
}
