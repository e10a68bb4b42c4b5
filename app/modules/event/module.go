package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/mint-edu/mint-backend/app/eventbus"
	eventservice "github.com/mint-edu/mint-backend/app/modules/event/application"
	eventhandlers "github.com/mint-edu/mint-backend/app/modules/event/infrastructure/handlers"
	eventqueue "github.com/mint-edu/mint-backend/app/modules/event/infrastructure/queue"
	eventdb "github.com/mint-edu/mint-backend/app/modules/event/infrastructure/repositories"
	eventrouter "github.com/mint-edu/mint-backend/app/modules/event/infrastructure/router"
	"github.com/mint-edu/mint-backend/app/observability"
	"github.com/mint-edu/mint-backend/config"
	"github.com/uptrace/bun"
)

// Module represents the event module.
type Module struct {
	Repository eventdb.Repository
	Service    *eventservice.EventService
	router     *eventrouter.Router
	queue      *eventqueue.Service
	logger     *slog.Logger
}

// NewModule wires the event repository, service, optional auto-end queue and
// HTTP handlers.
func NewModule(
	ctx context.Context,
	cfg *config.Config,
	obs observability.Observability,
	db *bun.DB,
	publisher eventbus.Publisher,
	requireAdmin eventrouter.Middleware,
) (*Module, error) {
	logger := obs.Logger.With(slog.String("module", "event"))
	logger.InfoContext(ctx, "Initializing event module")

	repo := eventdb.NewRepository(db)
	metrics := observability.NewOperationMetrics(obs.Registry, "event")

	service := eventservice.NewEventService(
		repo,
		publisher,
		eventservice.Config{
			DefaultSimURL:   cfg.Sim.PortfolioURL,
			SimAdminToken:   cfg.Sim.AdminToken,
			SimAdminLinkTTL: cfg.Sim.AdminLinkTTL,
		},
		logger,
		metrics,
		obs.Tracer,
		db,
	)

	m := &Module{
		Repository: repo,
		Service:    service,
		logger:     logger,
	}

	if cfg.Queue.Enabled {
		queue, err := eventqueue.NewService(ctx, db, logger, cfg.Postgres.DSN, metrics, service)
		if err != nil {
			return nil, fmt.Errorf("failed to create event queue: %w", err)
		}
		service.SetAutoEndScheduler(queue)
		m.queue = queue
	}

	handlers := eventhandlers.NewEventHandlers(service, logger, obs.Tracer)
	m.router = eventrouter.NewRouter(handlers, requireAdmin)

	logger.InfoContext(ctx, "Event module initialized", slog.Bool("queue_enabled", m.queue != nil))
	return m, nil
}

// RegisterRoutes mounts the event HTTP routes.
func (m *Module) RegisterRoutes(r chi.Router) {
	m.router.Register(r)
}

// Start starts the auto-end queue when enabled.
func (m *Module) Start(ctx context.Context) error {
	if m.queue == nil {
		return nil
	}
	if err := m.queue.HealthCheck(ctx); err != nil {
		return fmt.Errorf("%w: run \"mint migrate up\"", err)
	}
	return m.queue.Start(ctx)
}

// Close stops the auto-end queue.
func (m *Module) Close(ctx context.Context) error {
	if m.queue == nil {
		return nil
	}
	m.logger.InfoContext(ctx, "Stopping event module")
	return m.queue.Stop(ctx)
}
