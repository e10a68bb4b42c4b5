package runservice

import (
	"context"
	"encoding/json"

	rundb "github.com/mint-edu/mint-backend/app/modules/run/infrastructure/repositories"
)

// Service defines the run operations.
type Service interface {
	// CreateRun records a new run for the event and returns its launch URL.
	CreateRun(ctx context.Context, req CreateRunRequest) (*CreateRunResponse, error)

	// SubmitResults stores the metrics of a run exactly once.
	SubmitResults(ctx context.Context, req SubmitResultsRequest) error

	// GetRun returns a run with its event and result.
	GetRun(ctx context.Context, runID string) (*rundb.Run, error)

	// ListUserRuns returns a user's runs newest first.
	ListUserRuns(ctx context.Context, userID string) ([]rundb.Run, error)
}

// CreateRunRequest identifies the event and the participant.
// Profile is set only when the caller proved they own UserID.
type CreateRunRequest struct {
	EventCode string
	UserID    string
	Profile   *PlayerProfile
}

// PlayerProfile is the display information stored for a verified participant.
type PlayerProfile struct {
	DisplayName string
	Email       string
}

// CreateRunResponse is returned to the participant.
type CreateRunResponse struct {
	RunID  string `json:"runId"`
	SimURL string `json:"simUrl"`
}

// SubmitResultsRequest carries the metrics reported by the simulation.
type SubmitResultsRequest struct {
	RunID       string
	Score       *float64
	PnL         *float64
	Sharpe      *float64
	MaxDrawdown *float64
	WinRate     *float64
	Extra       json.RawMessage
}
