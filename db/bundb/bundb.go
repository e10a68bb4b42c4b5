// Package bundb opens the Postgres connection shared by all modules and holds
// the helpers that sit directly on top of bun and pgdriver.
package bundb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// Open connects to Postgres through pgdriver and verifies the connection.
func Open(ctx context.Context, dsn string, logger *slog.Logger) (*bun.DB, error) {
	if dsn == "" {
		return nil, errors.New("postgres dsn is empty")
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	sqldb.SetMaxOpenConns(20)
	sqldb.SetMaxIdleConns(5)
	sqldb.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := sqldb.PingContext(pingCtx); err != nil {
		sqldb.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if logger != nil {
		logger.InfoContext(ctx, "Connected to Postgres")
	}

	return bun.NewDB(sqldb, pgdialect.New()), nil
}

// sqlStateUniqueViolation is the Postgres SQLSTATE for unique_violation.
const sqlStateUniqueViolation = "23505"

// fieldError is satisfied by pgdriver.Error, which exposes the server's
// error fields keyed by their protocol code.
type fieldError interface {
	error
	Field(k byte) string
}

var _ fieldError = pgdriver.Error{}

// IsUniqueViolation reports whether err is a Postgres unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr fieldError
	if errors.As(err, &pgErr) {
		return pgErr.Field('C') == sqlStateUniqueViolation
	}
	return false
}
