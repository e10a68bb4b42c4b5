package eventdb

import (
	"context"

	"github.com/google/uuid"
	eventdomain "github.com/mint-edu/mint-backend/app/modules/event/domain"
	"github.com/uptrace/bun"
)

// Repository defines the contract for event persistence.
type Repository interface {
	// Create inserts a new event. Returns ErrDuplicateCode if the code is taken.
	Create(ctx context.Context, db bun.IDB, event *Event) error

	// GetByCode retrieves an event by its normalised code.
	GetByCode(ctx context.Context, db bun.IDB, code string) (*Event, error)

	// GetByID retrieves an event by its ID.
	GetByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*Event, error)

	// LockByCode retrieves an event and holds a row lock until the transaction ends.
	LockByCode(ctx context.Context, db bun.IDB, code string) (*Event, error)

	// LockByID retrieves an event by ID and holds a row lock until the transaction ends.
	LockByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*Event, error)

	// List returns events ordered newest first. An empty states slice returns all events.
	List(ctx context.Context, db bun.IDB, states []eventdomain.State) ([]Event, error)

	// UpdateState persists state, started_at and ended_at.
	UpdateState(ctx context.Context, db bun.IDB, event *Event) error
}
