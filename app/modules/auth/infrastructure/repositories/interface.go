package authdb

import (
	"context"

	"github.com/uptrace/bun"
)

// Repository defines the contract for admin allowlist persistence.
type Repository interface {
	// AnyAllowed reports whether any of the keys is present.
	AnyAllowed(ctx context.Context, db bun.IDB, keys []string) (bool, error)

	// Add inserts an entry. Adding an existing entry is a no-op.
	Add(ctx context.Context, db bun.IDB, email string) error

	// Remove deletes an entry. Returns ErrNotFound if it is absent.
	Remove(ctx context.Context, db bun.IDB, email string) error

	// List returns all entries ordered by email.
	List(ctx context.Context, db bun.IDB) ([]AllowlistEntry, error)
}
