package authmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating admin_allowlist table...")

		_, err := db.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS admin_allowlist (
				email TEXT PRIMARY KEY CHECK (email = lower(email)),
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);
		`)
		if err != nil {
			return fmt.Errorf("failed to create admin_allowlist table: %w", err)
		}
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping admin_allowlist table...")

		_, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS admin_allowlist;`)
		return err
	})
}
