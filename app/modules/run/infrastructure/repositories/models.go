package rundb

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	eventdb "github.com/mint-edu/mint-backend/app/modules/event/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// Run is one participant's attempt at an event's simulation.
type Run struct {
	bun.BaseModel `bun:"table:runs,alias:r"`
	ID            uuid.UUID  `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	EventID       uuid.UUID  `bun:"event_id,type:uuid,notnull" json:"event_id"`
	UserID        string     `bun:"user_id,nullzero" json:"user_id,omitempty"`
	CreatedAt     time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	FinishedAt    *time.Time `bun:"finished_at" json:"finished_at"`

	Event  *eventdb.Event `bun:"rel:belongs-to,join:event_id=id" json:"event,omitempty"`
	Result *RunResult     `bun:"rel:has-one,join:id=run_id" json:"result"`
}

// RunResult holds the metrics reported when a run finishes.
type RunResult struct {
	bun.BaseModel `bun:"table:run_results,alias:rr"`
	RunID         uuid.UUID       `bun:"run_id,pk,type:uuid" json:"run_id"`
	Score         float64         `bun:"score,notnull" json:"score"`
	PnL           *float64        `bun:"pnl" json:"pnl"`
	Sharpe        *float64        `bun:"sharpe" json:"sharpe"`
	MaxDrawdown   *float64        `bun:"max_drawdown" json:"max_drawdown"`
	WinRate       *float64        `bun:"win_rate" json:"win_rate"`
	Extra         json.RawMessage `bun:"extra,type:jsonb,nullzero" json:"extra,omitempty"`
	CreatedAt     time.Time       `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}

// Player is the public profile shown on leaderboards.
type Player struct {
	bun.BaseModel `bun:"table:players,alias:p"`
	UserID        string    `bun:"user_id,pk" json:"user_id"`
	DisplayName   string    `bun:"display_name,nullzero" json:"display_name,omitempty"`
	Email         string    `bun:"email,nullzero" json:"email,omitempty"`
	UpdatedAt     time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}
