package leaderboarddb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	leaderboarddomain "github.com/mint-edu/mint-backend/app/modules/leaderboard/domain"
	"github.com/uptrace/bun"
)

// Repository reads leaderboard source rows.
type Repository interface {
	// FinishedEntries returns every finished run of an event that has a result,
	// joined with the player profile when one exists.
	FinishedEntries(ctx context.Context, db bun.IDB, eventID uuid.UUID) ([]leaderboarddomain.Entry, error)
}

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new leaderboard repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// entryRow is the scan target of the leaderboard join.
type entryRow struct {
	RunID       uuid.UUID `bun:"run_id"`
	CreatedAt   time.Time `bun:"created_at"`
	UserID      string    `bun:"user_id,nullzero"`
	DisplayName string    `bun:"display_name,nullzero"`
	Email       string    `bun:"email,nullzero"`
	Score       *float64  `bun:"score"`
	PnL         *float64  `bun:"pnl"`
	Sharpe      *float64  `bun:"sharpe"`
	MaxDrawdown *float64  `bun:"max_drawdown"`
	WinRate     *float64  `bun:"win_rate"`
}

// FinishedEntries returns finished runs with results, oldest first.
func (r *Impl) FinishedEntries(ctx context.Context, db bun.IDB, eventID uuid.UUID) ([]leaderboarddomain.Entry, error) {
	db = r.resolveDB(db)

	var rows []entryRow
	err := db.NewSelect().
		TableExpr("runs AS r").
		Join("JOIN run_results AS rr ON rr.run_id = r.id").
		Join("LEFT JOIN players AS p ON p.user_id = r.user_id").
		ColumnExpr("r.id AS run_id, r.created_at, r.user_id").
		ColumnExpr("rr.score, rr.pnl, rr.sharpe, rr.max_drawdown, rr.win_rate").
		ColumnExpr("p.display_name, p.email").
		Where("r.event_id = ?", eventID).
		Where("r.finished_at IS NOT NULL").
		OrderExpr("r.created_at ASC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to load leaderboard entries: %w", err)
	}

	entries := make([]leaderboarddomain.Entry, len(rows))
	for i, row := range rows {
		entries[i] = leaderboarddomain.Entry{
			RunID:       row.RunID,
			CreatedAt:   row.CreatedAt,
			UserID:      row.UserID,
			DisplayName: row.DisplayName,
			Email:       row.Email,
			Score:       row.Score,
			PnL:         row.PnL,
			Sharpe:      row.Sharpe,
			MaxDrawdown: row.MaxDrawdown,
			WinRate:     row.WinRate,
		}
	}
	return entries, nil
}
