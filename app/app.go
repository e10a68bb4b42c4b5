package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/mint-edu/mint-backend/app/eventbus"
	"github.com/mint-edu/mint-backend/app/modules/auth"
	"github.com/mint-edu/mint-backend/app/modules/event"
	"github.com/mint-edu/mint-backend/app/modules/leaderboard"
	"github.com/mint-edu/mint-backend/app/modules/run"
	"github.com/mint-edu/mint-backend/app/observability"
	"github.com/mint-edu/mint-backend/config"
	"github.com/mint-edu/mint-backend/db/bundb"
	"github.com/uptrace/bun"
)

// App owns the process-wide resources and the modules built on them.
type App struct {
	Config        *config.Config
	Observability observability.Observability
	DB            *bun.DB
	EventBus      *eventbus.EventBus

	AuthModule        *auth.Module
	EventModule       *event.Module
	RunModule         *run.Module
	LeaderboardModule *leaderboard.Module

	router chi.Router
}

// Options tweak NewApp. The zero value is what `mint serve` uses.
type Options struct {
	// SkipSchemaCheck starts even when migrations are pending.
	SkipSchemaCheck bool
}

// NewApp connects to Postgres, checks the schema, opens the event bus and
// wires every module.
func NewApp(ctx context.Context, cfg *config.Config, obs observability.Observability, opts Options) (*App, error) {
	db, err := bundb.Open(ctx, cfg.Postgres.DSN, obs.Logger)
	if err != nil {
		return nil, err
	}

	app, err := newApp(ctx, cfg, obs, db, opts)
	if err != nil {
		db.Close()
		return nil, err
	}
	return app, nil
}

func newApp(ctx context.Context, cfg *config.Config, obs observability.Observability, db *bun.DB, opts Options) (*App, error) {
	if !opts.SkipSchemaCheck {
		if err := bundb.CheckSchema(ctx, bundb.NewMigrators(db, Migrations())); err != nil {
			return nil, err
		}
	}

	bus, err := newEventBus(ctx, cfg, obs.Logger)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:        cfg,
		Observability: obs,
		DB:            db,
		EventBus:      bus,
	}

	if err := app.initializeModules(ctx); err != nil {
		bus.Close()
		return nil, err
	}
	app.router = app.newRouter()

	return app, nil
}

func newEventBus(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*eventbus.EventBus, error) {
	if cfg.NATS.URL == "" {
		logger.InfoContext(ctx, "NATS_URL not set; lifecycle notifications stay in-process")
		return eventbus.NewInMemoryEventBus(logger), nil
	}
	bus, err := eventbus.NewNATSEventBus(ctx, eventbus.Config{
		URL:      cfg.NATS.URL,
		NKeySeed: cfg.NATS.NKeySeed,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create event bus: %w", err)
	}
	return bus, nil
}

func (app *App) initializeModules(ctx context.Context) error {
	app.AuthModule = auth.NewModule(ctx, app.Config, app.Observability, app.DB)

	eventModule, err := event.NewModule(ctx, app.Config, app.Observability, app.DB, app.EventBus, app.AuthModule.RequireAdmin)
	if err != nil {
		return fmt.Errorf("failed to initialize event module: %w", err)
	}
	app.EventModule = eventModule

	app.RunModule = run.NewModule(ctx, app.Config, app.Observability, app.DB, eventModule.Repository, app.EventBus, runRateLimit())
	app.LeaderboardModule = leaderboard.NewModule(ctx, app.Observability, app.DB, eventModule.Repository, app.AuthModule.RequireAdmin)

	app.Observability.Logger.InfoContext(ctx, "All modules initialized")
	return nil
}

// Router returns the HTTP handler serving every route.
func (app *App) Router() chi.Router {
	return app.router
}

// Close releases the modules, the event bus and the database, in that order.
func (app *App) Close(ctx context.Context) error {
	var errs []error
	if app.EventModule != nil {
		if err := app.EventModule.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if app.EventBus != nil {
		if err := app.EventBus.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}
	return errors.Join(errs...)
}
