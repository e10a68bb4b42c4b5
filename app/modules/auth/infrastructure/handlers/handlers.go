package authhandlers

import (
	"log/slog"
	"net/http"
	"strings"

	authservice "github.com/mint-edu/mint-backend/app/modules/auth/application"
	authdomain "github.com/mint-edu/mint-backend/app/modules/auth/domain"
	"github.com/mint-edu/mint-backend/app/shared/identity"
	"go.opentelemetry.io/otel/trace"
)

// AuthHandlers implements the Handlers interface.
type AuthHandlers struct {
	service authservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewAuthHandlers creates a new AuthHandlers instance.
func NewAuthHandlers(service authservice.Service, logger *slog.Logger, tracer trace.Tracer) Handlers {
	return &AuthHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

// BearerToken extracts the token from an Authorization header. The scheme is
// matched case-insensitively.
func BearerToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// callerFromContext returns the user resolved by ResolveIdentity, or nil.
func callerFromContext(r *http.Request) *authdomain.User {
	id, ok := identity.FromContext(r.Context())
	if !ok || id.UserID == "" {
		return nil
	}
	return &authdomain.User{ID: id.UserID, Email: id.Email, DisplayName: id.DisplayName}
}

func toIdentity(u *authdomain.User, admin bool) identity.Identity {
	return identity.Identity{
		UserID:      u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Admin:       admin,
	}
}
