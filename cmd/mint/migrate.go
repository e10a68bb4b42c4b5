package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/mint-edu/mint-backend/app"
	eventqueue "github.com/mint-edu/mint-backend/app/modules/event/infrastructure/queue"
	"github.com/mint-edu/mint-backend/config"
	"github.com/mint-edu/mint-backend/db/bundb"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/uptrace/bun"
	"github.com/urfave/cli/v2"
)

// withMigrators opens the database and hands the ordered module migrators to fn.
func withMigrators(c *cli.Context, fn func(ctx context.Context, cfg *config.Config, db *bun.DB, migrators []bundb.NamedMigrator) error) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	db, err := bundb.Open(c.Context, cfg.Postgres.DSN, nil)
	if err != nil {
		return err
	}
	defer db.Close()

	return fn(c.Context, cfg, db, bundb.NewMigrators(db, app.Migrations()))
}

func newMigrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "database migrations",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "create migration tables",
				Action: func(c *cli.Context) error {
					return withMigrators(c, func(ctx context.Context, _ *config.Config, _ *bun.DB, migrators []bundb.NamedMigrator) error {
						for _, m := range migrators {
							fmt.Printf("Initializing migrations for module: %s\n", m.Module)
							if err := m.Migrator.Init(ctx); err != nil {
								return fmt.Errorf("failed to initialize migrations for module %s: %w", m.Module, err)
							}
						}
						return nil
					})
				},
			},
			{
				Name:    "up",
				Aliases: []string{"migrate"},
				Usage:   "apply pending migrations, including the job queue schema",
				Action: func(c *cli.Context) error {
					return withMigrators(c, func(ctx context.Context, cfg *config.Config, _ *bun.DB, migrators []bundb.NamedMigrator) error {
						for _, m := range migrators {
							if err := m.Migrator.Init(ctx); err != nil {
								return fmt.Errorf("failed to initialize migrations for module %s: %w", m.Module, err)
							}
							fmt.Printf("Running migrations for module: %s\n", m.Module)
							group, err := m.Migrator.Migrate(ctx)
							if err != nil {
								return fmt.Errorf("failed to migrate module %s: %w", m.Module, err)
							}
							if group.IsZero() {
								fmt.Printf("No new migrations to run for module: %s\n", m.Module)
							} else {
								fmt.Printf("Migrated module: %s to %s\n", m.Module, group)
							}
						}
						return migrateRiver(ctx, cfg.Postgres.DSN)
					})
				},
			},
			{
				Name:  "rollback",
				Usage: "rollback the last migration group of every module",
				Action: func(c *cli.Context) error {
					return withMigrators(c, func(ctx context.Context, _ *config.Config, _ *bun.DB, migrators []bundb.NamedMigrator) error {
						// Dependents first.
						for i := len(migrators) - 1; i >= 0; i-- {
							m := migrators[i]
							fmt.Printf("Rolling back migrations for module: %s\n", m.Module)
							group, err := m.Migrator.Rollback(ctx)
							if err != nil {
								return fmt.Errorf("failed to roll back module %s: %w", m.Module, err)
							}
							if group.IsZero() {
								fmt.Printf("No groups to roll back for module: %s\n", m.Module)
							} else {
								fmt.Printf("Rolled back module: %s to %s\n", m.Module, group)
							}
						}
						return nil
					})
				},
			},
			{
				Name:  "status",
				Usage: "print migrations status",
				Action: func(c *cli.Context) error {
					return withMigrators(c, func(ctx context.Context, _ *config.Config, _ *bun.DB, migrators []bundb.NamedMigrator) error {
						for _, m := range migrators {
							ms, err := m.Migrator.MigrationsWithStatus(ctx)
							if err != nil {
								return err
							}
							fmt.Printf("Migrations for module: %s\n", m.Module)
							fmt.Printf("  %s\n", ms)
							fmt.Printf("  Applied: %s\n", ms.Applied())
							fmt.Printf("  Unapplied: %s\n", ms.Unapplied())
						}
						return nil
					})
				},
			},
			{
				Name:      "create_go",
				Usage:     "create Go migration",
				ArgsUsage: "<module> <name...>",
				Action: func(c *cli.Context) error {
					return withMigrators(c, func(ctx context.Context, _ *config.Config, _ *bun.DB, migrators []bundb.NamedMigrator) error {
						moduleName := c.Args().First()
						for _, m := range migrators {
							if m.Module != moduleName {
								continue
							}
							name := strings.Join(c.Args().Tail(), "_")
							mf, err := m.Migrator.CreateGoMigration(ctx, name)
							if err != nil {
								return err
							}
							fmt.Printf("Created migration for module %s: %s (%s)\n", moduleName, mf.Name, mf.Path)
							return nil
						}
						return fmt.Errorf("invalid module name: %s", moduleName)
					})
				},
			},
		},
	}
}

// migrateRiver applies the job queue schema so the queue can be enabled later
// without another migration step.
func migrateRiver(ctx context.Context, dsn string) error {
	pool, err := eventqueue.NewPool(ctx, dsn)
	if err != nil {
		return err
	}
	defer pool.Close()

	migrator, err := rivermigrate.New(riverpgxv5.New(pool), nil)
	if err != nil {
		return fmt.Errorf("failed to create River migrator: %w", err)
	}
	res, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, &rivermigrate.MigrateOpts{})
	if err != nil {
		return fmt.Errorf("failed to run River migrations: %w", err)
	}
	if len(res.Versions) == 0 {
		fmt.Println("No new job queue migrations to run")
	} else {
		fmt.Printf("Applied %d job queue migrations\n", len(res.Versions))
	}
	return nil
}
