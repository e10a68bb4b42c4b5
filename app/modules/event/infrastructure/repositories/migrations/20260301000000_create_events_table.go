package eventmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating events table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS events (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					code TEXT NOT NULL,
					name TEXT NOT NULL,
					sim_url TEXT NOT NULL,
					sim_type TEXT NOT NULL DEFAULT 'portfolio_sim',
					scenario_id TEXT,
					duration_minutes INTEGER NOT NULL DEFAULT 45 CHECK (duration_minutes > 0),
					state TEXT NOT NULL DEFAULT 'draft'
						CHECK (state IN ('draft', 'active', 'live', 'paused', 'ended')),
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					starts_at TIMESTAMPTZ,
					ends_at TIMESTAMPTZ,
					started_at TIMESTAMPTZ,
					ended_at TIMESTAMPTZ
				);
				CREATE UNIQUE INDEX IF NOT EXISTS idx_events_code ON events(code);
				CREATE INDEX IF NOT EXISTS idx_events_state_created_at ON events(state, created_at DESC);
			`); err != nil {
				return fmt.Errorf("failed to create events table: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping events table...")

		if _, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS events;`); err != nil {
			return fmt.Errorf("failed to drop events table: %w", err)
		}
		return nil
	})
}
