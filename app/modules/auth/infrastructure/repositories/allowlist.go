package authdb

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new allowlist repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) AnyAllowed(ctx context.Context, db bun.IDB, keys []string) (bool, error) {
	if len(keys) == 0 {
		return false, nil
	}
	ok, err := r.resolveDB(db).NewSelect().
		Model((*AllowlistEntry)(nil)).
		Where("aa.email IN (?)", bun.In(keys)).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to query admin_allowlist: %w", err)
	}
	return ok, nil
}

func (r *Impl) Add(ctx context.Context, db bun.IDB, email string) error {
	_, err := r.resolveDB(db).NewInsert().
		Model(&AllowlistEntry{Email: email}).
		On("CONFLICT (email) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to add allowlist entry: %w", err)
	}
	return nil
}

func (r *Impl) Remove(ctx context.Context, db bun.IDB, email string) error {
	res, err := r.resolveDB(db).NewDelete().
		Model((*AllowlistEntry)(nil)).
		Where("email = ?", email).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to remove allowlist entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Impl) List(ctx context.Context, db bun.IDB) ([]AllowlistEntry, error) {
	var entries []AllowlistEntry
	err := r.resolveDB(db).NewSelect().
		Model(&entries).
		Order("aa.email ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list allowlist: %w", err)
	}
	return entries, nil
}
