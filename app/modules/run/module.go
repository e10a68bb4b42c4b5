package run

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mint-edu/mint-backend/app/eventbus"
	eventdb "github.com/mint-edu/mint-backend/app/modules/event/infrastructure/repositories"
	runservice "github.com/mint-edu/mint-backend/app/modules/run/application"
	runhandlers "github.com/mint-edu/mint-backend/app/modules/run/infrastructure/handlers"
	rundb "github.com/mint-edu/mint-backend/app/modules/run/infrastructure/repositories"
	runrouter "github.com/mint-edu/mint-backend/app/modules/run/infrastructure/router"
	"github.com/mint-edu/mint-backend/app/observability"
	"github.com/mint-edu/mint-backend/config"
	"github.com/uptrace/bun"
)

// Module represents the run module.
type Module struct {
	Repository rundb.Repository
	Service    runservice.Service
	router     *runrouter.Router
}

// NewModule wires the run repository, service and HTTP handlers.
func NewModule(
	ctx context.Context,
	cfg *config.Config,
	obs observability.Observability,
	db *bun.DB,
	eventRepo eventdb.Repository,
	publisher eventbus.Publisher,
	rateLimit func(http.Handler) http.Handler,
) *Module {
	logger := obs.Logger.With(slog.String("module", "run"))
	logger.InfoContext(ctx, "Initializing run module")

	repo := rundb.NewRepository(db)
	service := runservice.NewRunService(
		repo,
		eventRepo,
		publisher,
		logger,
		observability.NewOperationMetrics(obs.Registry, "run"),
		obs.Tracer,
		db,
		runservice.Config{DefaultSimURL: cfg.Sim.PortfolioURL},
	)
	handlers := runhandlers.NewRunHandlers(service, logger, obs.Tracer)

	return &Module{
		Repository: repo,
		Service:    service,
		router:     runrouter.NewRouter(handlers, rateLimit),
	}
}

// RegisterRoutes mounts the run HTTP routes.
func (m *Module) RegisterRoutes(r chi.Router) {
	m.router.Register(r)
}
