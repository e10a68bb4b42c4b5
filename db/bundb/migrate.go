package bundb

import (
	"context"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

// ErrSchemaOutdated is returned by CheckSchema when migrations are pending.
var ErrSchemaOutdated = errors.New(`database schema is out of date: run "mint migrate up"`)

// ModuleMigrations names the migration set owned by one module.
type ModuleMigrations struct {
	Module     string
	Migrations *migrate.Migrations
}

// NamedMigrator pairs a module name with its migrator.
type NamedMigrator struct {
	Module   string
	Migrator *migrate.Migrator
}

// NewMigrators builds migrators in the order given. Later modules may reference
// tables created by earlier ones, so callers must keep the slice ordered.
func NewMigrators(db *bun.DB, modules []ModuleMigrations) []NamedMigrator {
	out := make([]NamedMigrator, 0, len(modules))
	for _, m := range modules {
		out = append(out, NamedMigrator{
			Module:   m.Module,
			Migrator: migrate.NewMigrator(db, m.Migrations),
		})
	}
	return out
}

// CheckSchema fails fast when any module has unapplied migrations or the
// migration tables do not exist yet.
func CheckSchema(ctx context.Context, migrators []NamedMigrator) error {
	for _, m := range migrators {
		ms, err := m.Migrator.MigrationsWithStatus(ctx)
		if err != nil {
			return fmt.Errorf("%w (module %s: %v)", ErrSchemaOutdated, m.Module, err)
		}
		if unapplied := ms.Unapplied(); len(unapplied) > 0 {
			return fmt.Errorf("%w (module %s has %d pending migrations, first: %s)",
				ErrSchemaOutdated, m.Module, len(unapplied), unapplied[0].Name)
		}
	}
	return nil
}
