package rundb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mint-edu/mint-backend/db/bundb"
	"github.com/uptrace/bun"
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new run repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// CreateRun inserts a run and fills in database defaults.
func (r *Impl) CreateRun(ctx context.Context, db bun.IDB, run *Run) error {
	db = r.resolveDB(db)
	if _, err := db.NewInsert().
		Model(run).
		ExcludeColumn("finished_at").
		Returning("*").
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

// GetRun retrieves a run with its event and result.
func (r *Impl) GetRun(ctx context.Context, db bun.IDB, id uuid.UUID) (*Run, error) {
	db = r.resolveDB(db)
	run := new(Run)
	err := db.NewSelect().
		Model(run).
		Relation("Event").
		Relation("Result").
		Where("r.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// LockRun retrieves a run with FOR UPDATE.
func (r *Impl) LockRun(ctx context.Context, db bun.IDB, id uuid.UUID) (*Run, error) {
	db = r.resolveDB(db)
	run := new(Run)
	err := db.NewSelect().
		Model(run).
		Where("r.id = ?", id).
		For("UPDATE").
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock run: %w", err)
	}
	return run, nil
}

// ResultExists reports whether the run already has a result.
func (r *Impl) ResultExists(ctx context.Context, db bun.IDB, runID uuid.UUID) (bool, error) {
	db = r.resolveDB(db)
	exists, err := db.NewSelect().
		Model((*RunResult)(nil)).
		Where("rr.run_id = ?", runID).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check run result: %w", err)
	}
	return exists, nil
}

// InsertResult stores a run result.
func (r *Impl) InsertResult(ctx context.Context, db bun.IDB, result *RunResult) error {
	db = r.resolveDB(db)
	if _, err := db.NewInsert().
		Model(result).
		Returning("created_at").
		Exec(ctx); err != nil {
		if bundb.IsUniqueViolation(err) {
			return ErrDuplicateResult
		}
		return fmt.Errorf("failed to insert run result: %w", err)
	}
	return nil
}

// MarkFinished sets finished_at once.
func (r *Impl) MarkFinished(ctx context.Context, db bun.IDB, runID uuid.UUID, at time.Time) error {
	db = r.resolveDB(db)
	res, err := db.NewUpdate().
		Model((*Run)(nil)).
		Set("finished_at = ?", at).
		Where("id = ?", runID).
		Where("finished_at IS NULL").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to mark run finished: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByUser returns a user's runs newest first.
func (r *Impl) ListByUser(ctx context.Context, db bun.IDB, userID string) ([]Run, error) {
	db = r.resolveDB(db)
	runs := make([]Run, 0)
	err := db.NewSelect().
		Model(&runs).
		Relation("Event").
		Relation("Result").
		Where("r.user_id = ?", userID).
		OrderExpr("r.created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// UpsertPlayer creates or refreshes a player profile. Blank fields do not
// overwrite values already stored.
func (r *Impl) UpsertPlayer(ctx context.Context, db bun.IDB, player *Player) error {
	db = r.resolveDB(db)
	_, err := db.NewInsert().
		Model(player).
		On("CONFLICT (user_id) DO UPDATE").
		Set("display_name = COALESCE(EXCLUDED.display_name, p.display_name)").
		Set("email = COALESCE(EXCLUDED.email, p.email)").
		Set("updated_at = NOW()").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert player: %w", err)
	}
	return nil
}
