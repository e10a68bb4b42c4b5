package runhandlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	runservice "github.com/mint-edu/mint-backend/app/modules/run/application"
	"github.com/mint-edu/mint-backend/app/shared/httpapi"
	"github.com/mint-edu/mint-backend/app/shared/identity"
	"go.opentelemetry.io/otel/trace"
)

// UserIDHeader lets unauthenticated clients name themselves.
const UserIDHeader = "X-User-Id"

// RunHandlers implements the Handlers interface.
type RunHandlers struct {
	service runservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewRunHandlers creates a new RunHandlers instance.
func NewRunHandlers(service runservice.Service, logger *slog.Logger, tracer trace.Tracer) Handlers {
	return &RunHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

// resolveUserID picks the participant id from the body, then the x-user-id
// header, then the verified bearer subject.
func resolveUserID(r *http.Request, fromBody string) string {
	if v := strings.TrimSpace(fromBody); v != "" {
		return v
	}
	if v := strings.TrimSpace(r.Header.Get(UserIDHeader)); v != "" {
		return v
	}
	if id, ok := identity.FromContext(r.Context()); ok {
		return id.UserID
	}
	return ""
}

func (h *RunHandlers) writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, runservice.ErrMissingEventCode),
		errors.Is(err, runservice.ErrMissingUserID),
		errors.Is(err, runservice.ErrMissingRunID),
		errors.Is(err, runservice.ErrInvalidScore):
		httpapi.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, runservice.ErrEventNotFound),
		errors.Is(err, runservice.ErrRunNotFound):
		httpapi.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, runservice.ErrAlreadySubmitted):
		httpapi.WriteError(w, http.StatusConflict, err.Error())
	case errors.Is(err, runservice.ErrSimURLNotConfigured):
		httpapi.WriteError(w, http.StatusServiceUnavailable, err.Error())
	default:
		h.logger.ErrorContext(r.Context(), "Run request failed",
			slog.String("operation", op),
			slog.Any("error", err),
		)
		httpapi.WriteError(w, http.StatusInternalServerError, "internal server error")
	}
}
