package eventhandlers

import (
	"errors"
	"log/slog"
	"net/http"

	eventservice "github.com/mint-edu/mint-backend/app/modules/event/application"
	"github.com/mint-edu/mint-backend/app/shared/httpapi"
	"go.opentelemetry.io/otel/trace"
)

// EventHandlers implements the Handlers interface.
type EventHandlers struct {
	service eventservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewEventHandlers creates a new EventHandlers instance.
func NewEventHandlers(
	service eventservice.Service,
	logger *slog.Logger,
	tracer trace.Tracer,
) Handlers {
	return &EventHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

// writeServiceError maps service errors to status codes. Anything unknown is
// logged and reported as a 500 without detail.
func (h *EventHandlers) writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, eventservice.ErrMissingFields),
		errors.Is(err, eventservice.ErrInvalidState),
		errors.Is(err, eventservice.ErrInvalidInitialState),
		errors.Is(err, eventservice.ErrInvalidDuration),
		errors.Is(err, eventservice.ErrInvalidSimURL),
		errors.Is(err, eventservice.ErrInvalidSchedule),
		errors.Is(err, eventservice.ErrMissingEventCode):
		httpapi.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, eventservice.ErrEventNotFound):
		httpapi.WriteError(w, http.StatusNotFound, "Event not found")
	case errors.Is(err, eventservice.ErrDuplicateCode),
		errors.Is(err, eventservice.ErrInvalidTransition):
		httpapi.WriteError(w, http.StatusConflict, err.Error())
	case errors.Is(err, eventservice.ErrSimLinkNotConfigured),
		errors.Is(err, eventservice.ErrSimURLNotConfigured):
		httpapi.WriteError(w, http.StatusServiceUnavailable, err.Error())
	default:
		h.logger.ErrorContext(r.Context(), "Event request failed",
			slog.String("operation", op),
			slog.Any("error", err),
		)
		httpapi.WriteError(w, http.StatusInternalServerError, "internal server error")
	}
}
