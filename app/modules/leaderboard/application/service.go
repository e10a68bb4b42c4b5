package leaderboardservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	eventdomain "github.com/mint-edu/mint-backend/app/modules/event/domain"
	eventdb "github.com/mint-edu/mint-backend/app/modules/event/infrastructure/repositories"
	leaderboarddomain "github.com/mint-edu/mint-backend/app/modules/leaderboard/domain"
	leaderboarddb "github.com/mint-edu/mint-backend/app/modules/leaderboard/infrastructure/repositories"
	"github.com/mint-edu/mint-backend/app/observability"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// LeaderboardService implements the Service interface.
type LeaderboardService struct {
	repo      leaderboarddb.Repository
	eventRepo eventdb.Repository
	logger    *slog.Logger
	metrics   observability.OperationMetrics
	tracer    trace.Tracer
	db        *bun.DB
}

// NewLeaderboardService creates a new LeaderboardService.
func NewLeaderboardService(
	repo leaderboarddb.Repository,
	eventRepo eventdb.Repository,
	logger *slog.Logger,
	metrics observability.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *LeaderboardService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LeaderboardService{
		repo:      repo,
		eventRepo: eventRepo,
		logger:    logger,
		metrics:   metrics,
		tracer:    tracer,
		db:        db,
	}
}

// GetLeaderboard ranks an event's finished runs. limit is clamped to [1, 100].
func (s *LeaderboardService) GetLeaderboard(ctx context.Context, code string, limit int) (*Board, error) {
	var board *Board
	err := s.withTelemetry(ctx, "GetLeaderboard", code, func(ctx context.Context) error {
		var err error
		board, err = s.load(ctx, code, limit)
		return err
	})
	return board, err
}

func (s *LeaderboardService) load(ctx context.Context, code string, limit int) (*Board, error) {
	code = eventdomain.NormalizeCode(code)
	if code == "" {
		return nil, ErrEventNotFound
	}

	event, err := s.eventRepo.GetByCode(ctx, s.dbOrNil(), code)
	if err != nil {
		if errors.Is(err, eventdb.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to load event: %w", err)
	}

	entries, err := s.repo.FinishedEntries(ctx, s.dbOrNil(), event.ID)
	if err != nil {
		return nil, err
	}

	return &Board{
		Event: EventSummary{Code: event.Code, Name: event.Name},
		Rows:  leaderboarddomain.Rank(entries, limit),
	}, nil
}

// ExportXLSX renders the top rows of an event as a spreadsheet.
func (s *LeaderboardService) ExportXLSX(ctx context.Context, code string) ([]byte, error) {
	var out []byte
	err := s.withTelemetry(ctx, "ExportXLSX", code, func(ctx context.Context) error {
		board, err := s.load(ctx, code, leaderboarddomain.MaxLimit)
		if err != nil {
			return err
		}
		out, err = BuildWorkbook(board)
		return err
	})
	return out, err
}

// RenderChart renders the top rows of an event as a PNG bar chart.
func (s *LeaderboardService) RenderChart(ctx context.Context, code string, limit int) ([]byte, error) {
	var out []byte
	err := s.withTelemetry(ctx, "RenderChart", code, func(ctx context.Context) error {
		board, err := s.load(ctx, code, limit)
		if err != nil {
			return err
		}
		out, err = RenderBarChart(board)
		return err
	})
	return out, err
}

func (s *LeaderboardService) dbOrNil() bun.IDB {
	if s.db == nil {
		return nil
	}
	return s.db
}

// withTelemetry wraps a read operation with a span and metrics. Not-found is
// recorded as a success because it is an expected outcome.
func (s *LeaderboardService) withTelemetry(ctx context.Context, operationName, identifier string, op func(ctx context.Context) error) (err error) {
	var span trace.Span
	if s.tracer != nil {
		ctx, span = s.tracer.Start(ctx, operationName, trace.WithAttributes(
			attribute.String("operation", operationName),
			attribute.String("identifier", identifier),
		))
	} else {
		span = trace.SpanFromContext(ctx)
	}
	defer span.End()

	if s.metrics != nil {
		s.metrics.RecordOperationAttempt(ctx, operationName, "LeaderboardService")
	}
	startTime := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.RecordOperationDuration(ctx, operationName, "LeaderboardService", time.Since(startTime))
		}
	}()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				slog.String("identifier", identifier),
				slog.Any("error", err),
			)
			if s.metrics != nil {
				s.metrics.RecordOperationFailure(ctx, operationName, "LeaderboardService")
			}
			span.RecordError(err)
		}
	}()

	err = op(ctx)
	if err != nil && !errors.Is(err, ErrEventNotFound) {
		err = fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			slog.String("operation", operationName),
			slog.String("identifier", identifier),
			slog.Any("error", err),
		)
		if s.metrics != nil {
			s.metrics.RecordOperationFailure(ctx, operationName, "LeaderboardService")
		}
		span.RecordError(err)
		return err
	}

	if s.metrics != nil {
		s.metrics.RecordOperationSuccess(ctx, operationName, "LeaderboardService")
	}
	return err
}
