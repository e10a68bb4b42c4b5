package leaderboard

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	eventdb "github.com/mint-edu/mint-backend/app/modules/event/infrastructure/repositories"
	leaderboardservice "github.com/mint-edu/mint-backend/app/modules/leaderboard/application"
	leaderboardhandlers "github.com/mint-edu/mint-backend/app/modules/leaderboard/infrastructure/handlers"
	leaderboarddb "github.com/mint-edu/mint-backend/app/modules/leaderboard/infrastructure/repositories"
	leaderboardrouter "github.com/mint-edu/mint-backend/app/modules/leaderboard/infrastructure/router"
	"github.com/mint-edu/mint-backend/app/observability"
	"github.com/uptrace/bun"
)

// Module represents the leaderboard module.
type Module struct {
	Service leaderboardservice.Service
	router  *leaderboardrouter.Router
}

// NewModule wires the leaderboard read path.
func NewModule(
	ctx context.Context,
	obs observability.Observability,
	db *bun.DB,
	eventRepo eventdb.Repository,
	requireAdmin func(http.Handler) http.Handler,
) *Module {
	logger := obs.Logger.With(slog.String("module", "leaderboard"))
	logger.InfoContext(ctx, "Initializing leaderboard module")

	service := leaderboardservice.NewLeaderboardService(
		leaderboarddb.NewRepository(db),
		eventRepo,
		logger,
		observability.NewOperationMetrics(obs.Registry, "leaderboard"),
		obs.Tracer,
		db,
	)
	handlers := leaderboardhandlers.NewLeaderboardHandlers(service, logger, obs.Tracer)

	return &Module{
		Service: service,
		router:  leaderboardrouter.NewRouter(handlers, requireAdmin),
	}
}

// RegisterRoutes mounts the leaderboard HTTP routes.
func (m *Module) RegisterRoutes(r chi.Router) {
	m.router.Register(r)
}
