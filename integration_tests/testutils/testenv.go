// Package testutils starts the containers shared by the integration tests.
package testutils

import (
	"context"
	"fmt"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/mint-edu/mint-backend/app"
	eventqueue "github.com/mint-edu/mint-backend/app/modules/event/infrastructure/queue"
	"github.com/mint-edu/mint-backend/db/bundb"
	"github.com/mint-edu/mint-backend/integration_tests/containers"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/nats"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/uptrace/bun"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// TestEnvironment holds the containers and the migrated database.
type TestEnvironment struct {
	PgContainer   *postgres.PostgresContainer
	NatsContainer *nats.NATSContainer
	DSN           string
	NatsURL       string
	DB            *bun.DB
}

var (
	sharedEnv     *TestEnvironment
	sharedEnvErr  error
	sharedEnvOnce sync.Once
)

// Setup returns the package-wide environment with every table emptied.
// It skips the test under -short or when Docker is unavailable.
func Setup(t *testing.T) *TestEnvironment {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	sharedEnvOnce.Do(func() {
		sharedEnv, sharedEnvErr = newTestEnvironment(context.Background())
	})
	if sharedEnvErr != nil {
		t.Fatalf("failed to set up test environment: %v", sharedEnvErr)
	}

	if err := sharedEnv.Reset(context.Background()); err != nil {
		t.Fatalf("failed to reset database: %v", err)
	}
	return sharedEnv
}

// Shutdown terminates the shared containers. Call it from TestMain.
func Shutdown() {
	if sharedEnv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sharedEnv.close(ctx)
}

func (env *TestEnvironment) close(ctx context.Context) {
	if env.DB != nil {
		env.DB.Close()
	}
	if env.PgContainer != nil {
		if err := env.PgContainer.Terminate(ctx); err != nil {
			log.Printf("Failed to terminate Postgres container: %v", err)
		}
	}
	if env.NatsContainer != nil {
		if err := env.NatsContainer.Terminate(ctx); err != nil {
			log.Printf("Failed to terminate NATS container: %v", err)
		}
	}
}

func newTestEnvironment(ctx context.Context) (*TestEnvironment, error) {
	env := &TestEnvironment{}

	pgContainer, dsn, err := containers.SetupPostgresContainer(ctx)
	if err != nil {
		return nil, err
	}
	env.PgContainer = pgContainer
	env.DSN = dsn

	natsContainer, natsURL, err := containers.SetupNatsContainer(ctx)
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, err
	}
	env.NatsContainer = natsContainer
	env.NatsURL = natsURL

	db, err := bundb.Open(ctx, dsn, nil)
	if err != nil {
		env.close(ctx)
		return nil, err
	}
	env.DB = db

	if err := env.migrate(ctx); err != nil {
		env.close(ctx)
		return nil, err
	}
	return env, nil
}

func (env *TestEnvironment) migrate(ctx context.Context) error {
	for _, m := range bundb.NewMigrators(env.DB, app.Migrations()) {
		if err := m.Migrator.Init(ctx); err != nil {
			return fmt.Errorf("failed to init migrations for %s: %w", m.Module, err)
		}
		if _, err := m.Migrator.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to migrate %s: %w", m.Module, err)
		}
	}

	pool, err := eventqueue.NewPool(ctx, env.DSN)
	if err != nil {
		return err
	}
	defer pool.Close()

	migrator, err := rivermigrate.New(riverpgxv5.New(pool), nil)
	if err != nil {
		return fmt.Errorf("failed to create River migrator: %w", err)
	}
	if _, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, &rivermigrate.MigrateOpts{}); err != nil {
		return fmt.Errorf("failed to run River migrations: %w", err)
	}
	return nil
}

// Reset empties the application tables.
func (env *TestEnvironment) Reset(ctx context.Context) error {
	_, err := env.DB.ExecContext(ctx,
		"TRUNCATE TABLE run_results, runs, players, events, admin_allowlist, river_job RESTART IDENTITY CASCADE")
	return err
}
