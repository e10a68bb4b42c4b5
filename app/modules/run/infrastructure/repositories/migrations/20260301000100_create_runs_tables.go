package runmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating runs, run_results and players tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS runs (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					event_id UUID NOT NULL REFERENCES events(id),
					user_id TEXT,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					finished_at TIMESTAMPTZ
				);
				CREATE INDEX IF NOT EXISTS idx_runs_event_id ON runs(event_id);
				CREATE INDEX IF NOT EXISTS idx_runs_user_id_created_at ON runs(user_id, created_at DESC);
			`); err != nil {
				return fmt.Errorf("failed to create runs table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS run_results (
					run_id UUID PRIMARY KEY REFERENCES runs(id),
					score DOUBLE PRECISION NOT NULL,
					pnl DOUBLE PRECISION,
					sharpe DOUBLE PRECISION,
					max_drawdown DOUBLE PRECISION,
					win_rate DOUBLE PRECISION,
					extra JSONB,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
			`); err != nil {
				return fmt.Errorf("failed to create run_results table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS players (
					user_id TEXT PRIMARY KEY,
					display_name TEXT,
					email TEXT,
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
			`); err != nil {
				return fmt.Errorf("failed to create players table: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping players, run_results and runs tables...")

		if _, err := db.ExecContext(ctx, `
			DROP TABLE IF EXISTS players;
			DROP TABLE IF EXISTS run_results;
			DROP TABLE IF EXISTS runs;
		`); err != nil {
			return fmt.Errorf("failed to drop run tables: %w", err)
		}
		return nil
	})
}
