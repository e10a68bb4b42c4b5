package leaderboardhandlers

import (
	"errors"
	"log/slog"
	"net/http"

	leaderboardservice "github.com/mint-edu/mint-backend/app/modules/leaderboard/application"
	"github.com/mint-edu/mint-backend/app/shared/httpapi"
	"go.opentelemetry.io/otel/trace"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// LeaderboardHandlers implements the Handlers interface.
type LeaderboardHandlers struct {
	service leaderboardservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewLeaderboardHandlers creates a new LeaderboardHandlers instance.
func NewLeaderboardHandlers(service leaderboardservice.Service, logger *slog.Logger, tracer trace.Tracer) Handlers {
	return &LeaderboardHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

func (h *LeaderboardHandlers) writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	if errors.Is(err, leaderboardservice.ErrEventNotFound) {
		httpapi.WriteError(w, http.StatusNotFound, err.Error())
		return
	}
	h.logger.ErrorContext(r.Context(), "Leaderboard request failed",
		slog.String("operation", op),
		slog.Any("error", err),
	)
	httpapi.WriteError(w, http.StatusInternalServerError, "internal server error")
}
