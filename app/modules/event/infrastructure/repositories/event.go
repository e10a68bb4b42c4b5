package eventdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	eventdomain "github.com/mint-edu/mint-backend/app/modules/event/domain"
	"github.com/mint-edu/mint-backend/db/bundb"
	"github.com/uptrace/bun"
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new event repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

// resolveDB returns the provided db handle, falling back to the repository's
// default connection if db is nil.
func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// Create inserts a new event and fills in database defaults.
func (r *Impl) Create(ctx context.Context, db bun.IDB, event *Event) error {
	db = r.resolveDB(db)
	_, err := db.NewInsert().
		Model(event).
		Returning("*").
		Exec(ctx)
	if err != nil {
		if bundb.IsUniqueViolation(err) {
			return ErrDuplicateCode
		}
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

// GetByCode retrieves an event by its code.
func (r *Impl) GetByCode(ctx context.Context, db bun.IDB, code string) (*Event, error) {
	return r.selectOne(ctx, r.resolveDB(db), "e.code = ?", code, false)
}

// GetByID retrieves an event by its ID.
func (r *Impl) GetByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*Event, error) {
	return r.selectOne(ctx, r.resolveDB(db), "e.id = ?", id, false)
}

// LockByCode retrieves an event by code with FOR UPDATE.
func (r *Impl) LockByCode(ctx context.Context, db bun.IDB, code string) (*Event, error) {
	return r.selectOne(ctx, r.resolveDB(db), "e.code = ?", code, true)
}

// LockByID retrieves an event by ID with FOR UPDATE.
func (r *Impl) LockByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*Event, error) {
	return r.selectOne(ctx, r.resolveDB(db), "e.id = ?", id, true)
}

func (r *Impl) selectOne(ctx context.Context, db bun.IDB, where string, arg any, lock bool) (*Event, error) {
	event := new(Event)
	q := db.NewSelect().
		Model(event).
		Where(where, arg)
	if lock {
		q = q.For("UPDATE")
	}
	if err := q.Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return event, nil
}

// List returns events newest first, optionally filtered by state.
func (r *Impl) List(ctx context.Context, db bun.IDB, states []eventdomain.State) ([]Event, error) {
	db = r.resolveDB(db)
	events := make([]Event, 0)
	q := db.NewSelect().
		Model(&events).
		OrderExpr("e.created_at DESC")
	if len(states) > 0 {
		q = q.Where("e.state IN (?)", bun.In(states))
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// UpdateState writes the lifecycle columns of an event.
func (r *Impl) UpdateState(ctx context.Context, db bun.IDB, event *Event) error {
	db = r.resolveDB(db)
	result, err := db.NewUpdate().
		Model(event).
		Column("state", "started_at", "ended_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update event state: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
