package leaderboardservice

import (
	"context"

	leaderboarddomain "github.com/mint-edu/mint-backend/app/modules/leaderboard/domain"
)

// Service defines the leaderboard read operations.
type Service interface {
	// GetLeaderboard ranks an event's finished runs.
	GetLeaderboard(ctx context.Context, code string, limit int) (*Board, error)

	// ExportXLSX renders the top MaxLimit rows as a spreadsheet.
	ExportXLSX(ctx context.Context, code string) ([]byte, error)

	// RenderChart renders the top rows as a PNG bar chart.
	RenderChart(ctx context.Context, code string, limit int) ([]byte, error)
}

// EventSummary identifies the event a board belongs to.
type EventSummary struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Board is the leaderboard response body.
type Board struct {
	Event EventSummary            `json:"event"`
	Rows  []leaderboarddomain.Row `json:"rows"`
}
