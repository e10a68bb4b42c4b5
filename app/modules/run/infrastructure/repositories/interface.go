package rundb

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository defines the contract for run persistence.
type Repository interface {
	// CreateRun inserts a run and fills in database defaults.
	CreateRun(ctx context.Context, db bun.IDB, run *Run) error

	// GetRun retrieves a run with its event and result.
	GetRun(ctx context.Context, db bun.IDB, id uuid.UUID) (*Run, error)

	// LockRun retrieves a run and holds a row lock until the transaction ends.
	LockRun(ctx context.Context, db bun.IDB, id uuid.UUID) (*Run, error)

	// ResultExists reports whether the run already has a result.
	ResultExists(ctx context.Context, db bun.IDB, runID uuid.UUID) (bool, error)

	// InsertResult stores a run result. Returns ErrDuplicateResult on conflict.
	InsertResult(ctx context.Context, db bun.IDB, result *RunResult) error

	// MarkFinished sets finished_at on a run that has none.
	MarkFinished(ctx context.Context, db bun.IDB, runID uuid.UUID, at time.Time) error

	// ListByUser returns a user's runs newest first, with event and result.
	ListByUser(ctx context.Context, db bun.IDB, userID string) ([]Run, error)

	// UpsertPlayer creates or refreshes a player profile.
	UpsertPlayer(ctx context.Context, db bun.IDB, player *Player) error
}
