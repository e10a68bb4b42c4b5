package auth

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	authservice "github.com/mint-edu/mint-backend/app/modules/auth/application"
	authhandlers "github.com/mint-edu/mint-backend/app/modules/auth/infrastructure/handlers"
	authdb "github.com/mint-edu/mint-backend/app/modules/auth/infrastructure/repositories"
	authrouter "github.com/mint-edu/mint-backend/app/modules/auth/infrastructure/router"
	authverifier "github.com/mint-edu/mint-backend/app/modules/auth/infrastructure/verifier"
	"github.com/mint-edu/mint-backend/app/observability"
	"github.com/mint-edu/mint-backend/config"
	"github.com/uptrace/bun"
)

// verifierTimeout bounds calls to the remote auth service.
const verifierTimeout = 5 * time.Second

// Module represents the auth module.
type Module struct {
	Service  authservice.Service
	Handlers authhandlers.Handlers
	router   *authrouter.Router
}

// NewModule wires the token verifier, allowlist repository and middleware.
func NewModule(
	ctx context.Context,
	cfg *config.Config,
	obs observability.Observability,
	db *bun.DB,
) *Module {
	logger := obs.Logger.With(slog.String("module", "auth"))
	logger.InfoContext(ctx, "Initializing auth module")

	verifier := authverifier.New(cfg.Supabase, &http.Client{Timeout: verifierTimeout})
	switch verifier.(type) {
	case *authverifier.JWTVerifier:
		logger.InfoContext(ctx, "Verifying bearer tokens locally")
	case *authverifier.GoTrueVerifier:
		logger.InfoContext(ctx, "Verifying bearer tokens against the auth service", slog.String("url", cfg.Supabase.URL))
	default:
		logger.WarnContext(ctx, "No token verifier configured; admin routes will reject every request")
	}

	service := NewService(verifier, db, obs, logger)
	handlers := authhandlers.NewAuthHandlers(service, logger, obs.Tracer)

	return &Module{
		Service:  service,
		Handlers: handlers,
		router:   authrouter.NewRouter(handlers),
	}
}

// NewService builds the allowlist service without HTTP wiring. The CLI uses
// it to manage admins.
func NewService(verifier authverifier.TokenVerifier, db *bun.DB, obs observability.Observability, logger *slog.Logger) *authservice.AuthService {
	return authservice.NewAuthService(
		verifier,
		authdb.NewRepository(db),
		logger,
		observability.NewOperationMetrics(obs.Registry, "auth"),
		obs.Tracer,
	)
}

// RegisterRoutes mounts the auth HTTP routes.
func (m *Module) RegisterRoutes(r chi.Router) {
	m.router.Register(r)
}

// RequireAdmin is the middleware guarding admin routes.
func (m *Module) RequireAdmin(next http.Handler) http.Handler {
	return m.Handlers.RequireAdmin(next)
}

// ResolveIdentity is the middleware attaching an optional caller identity.
func (m *Module) ResolveIdentity(next http.Handler) http.Handler {
	return m.Handlers.ResolveIdentity(next)
}
