package eventqueue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	eventservice "github.com/mint-edu/mint-backend/app/modules/event/application"
	"github.com/mint-edu/mint-backend/app/observability"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/uptrace/bun"
)

// QueueName is the River queue carrying event jobs.
const QueueName = "event"

// QueueService defines the contract for event job scheduling.
type QueueService interface {
	// ScheduleAutoEnd schedules the end of a live event at the given time.
	ScheduleAutoEnd(ctx context.Context, eventID uuid.UUID, at time.Time) error
	// GetScheduledJobs returns the auto-end jobs recorded for an event.
	GetScheduledJobs(ctx context.Context, eventID uuid.UUID) ([]JobInfo, error)
	// HealthCheck verifies the queue tables are reachable.
	HealthCheck(ctx context.Context) error
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

var (
	_ QueueService                  = (*Service)(nil)
	_ eventservice.AutoEndScheduler = (*Service)(nil)
)

// Service handles job scheduling for the event module using River.
type Service struct {
	client  *river.Client[pgx.Tx]
	pool    *pgxpool.Pool
	logger  *slog.Logger
	db      *bun.DB
	metrics observability.OperationMetrics
}

// NewService creates a River-backed queue whose worker calls ender.
func NewService(ctx context.Context, bunDB *bun.DB, logger *slog.Logger, dsn string, metrics observability.OperationMetrics, ender AutoEnder) (*Service, error) {
	ctxLogger := logger.With(
		slog.String("component", "river_queue"),
	)

	start := time.Now()
	metrics.RecordOperationAttempt(ctx, "initialize_service", "river")

	pool, err := NewPool(ctx, dsn)
	if err != nil {
		ctxLogger.ErrorContext(ctx, "Failed to create pgx pool for River", slog.Any("error", err))
		metrics.RecordOperationFailure(ctx, "initialize_service", "river")
		return nil, err
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, NewEventAutoEndWorker(ctxLogger, ender))

	riverClient, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: 10},
			QueueName:          {MaxWorkers: 10},
		},
		Workers: workers,
	})
	if err != nil {
		pool.Close()
		ctxLogger.ErrorContext(ctx, "Failed to create River client", slog.Any("error", err))
		metrics.RecordOperationFailure(ctx, "initialize_service", "river")
		return nil, fmt.Errorf("failed to create River client: %w", err)
	}

	metrics.RecordOperationSuccess(ctx, "initialize_service", "river")
	metrics.RecordOperationDuration(ctx, "initialize_service", "river", time.Since(start))

	ctxLogger.InfoContext(ctx, "Event queue service initialized")
	return &Service{
		client:  riverClient,
		pool:    pool,
		logger:  ctxLogger,
		db:      bunDB,
		metrics: metrics,
	}, nil
}

// NewPool opens and pings a pgx pool. River requires pgx rather than database/sql.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return pool, nil
}

// Start starts the River client.
func (s *Service) Start(ctx context.Context) error {
	s.metrics.RecordOperationAttempt(ctx, "start_service", "river")
	if err := s.client.Start(ctx); err != nil {
		s.logger.ErrorContext(ctx, "Failed to start River client", slog.Any("error", err))
		s.metrics.RecordOperationFailure(ctx, "start_service", "river")
		return fmt.Errorf("failed to start River client: %w", err)
	}
	s.metrics.RecordOperationSuccess(ctx, "start_service", "river")
	s.logger.InfoContext(ctx, "Event queue service started")
	return nil
}

// Stop stops the River client and closes its pool.
func (s *Service) Stop(ctx context.Context) error {
	s.metrics.RecordOperationAttempt(ctx, "stop_service", "river")
	defer s.pool.Close()

	if err := s.client.Stop(ctx); err != nil {
		s.logger.ErrorContext(ctx, "Failed to stop River client", slog.Any("error", err))
		s.metrics.RecordOperationFailure(ctx, "stop_service", "river")
		return fmt.Errorf("failed to stop River client: %w", err)
	}
	s.metrics.RecordOperationSuccess(ctx, "stop_service", "river")
	s.logger.InfoContext(ctx, "Event queue service stopped")
	return nil
}

// ScheduleAutoEnd inserts an event_auto_end job. A deadline already in the
// past runs as soon as a worker is free. Duplicate args are ignored, so
// resuming a paused event does not add a second job.
func (s *Service) ScheduleAutoEnd(ctx context.Context, eventID uuid.UUID, at time.Time) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "schedule_auto_end", "river")

	res, err := s.client.Insert(ctx, EventAutoEndJob{EventID: eventID.String()}, &river.InsertOpts{
		Queue:       QueueName,
		ScheduledAt: at,
		UniqueOpts: river.UniqueOpts{
			ByArgs: true,
		},
	})
	if err != nil {
		s.metrics.RecordOperationFailure(ctx, "schedule_auto_end", "river")
		return fmt.Errorf("failed to schedule event auto-end job: %w", err)
	}

	s.metrics.RecordOperationSuccess(ctx, "schedule_auto_end", "river")
	s.metrics.RecordOperationDuration(ctx, "schedule_auto_end", "river", time.Since(start))
	s.logger.InfoContext(ctx, "Event auto-end job scheduled",
		slog.String("event_id", eventID.String()),
		slog.Time("scheduled_at", at),
		slog.Int64("job_id", res.Job.ID),
		slog.Bool("duplicate", res.UniqueSkippedAsDuplicate),
	)
	return nil
}

// GetScheduledJobs returns information about auto-end jobs for an event.
func (s *Service) GetScheduledJobs(ctx context.Context, eventID uuid.UUID) ([]JobInfo, error) {
	type riverJobRow struct {
		ID          int64      `bun:"id"`
		Kind        string     `bun:"kind"`
		State       string     `bun:"state"`
		ScheduledAt *time.Time `bun:"scheduled_at"`
		Attempt     int16      `bun:"attempt"`
	}

	var rows []riverJobRow
	err := s.db.NewSelect().
		Table("river_job").
		Column("id", "kind", "state", "scheduled_at", "attempt").
		Where("kind = ?", EventAutoEndJob{}.Kind()).
		Where("args->>'event_id' = ?", eventID.String()).
		Order("scheduled_at ASC NULLS LAST").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to query scheduled jobs: %w", err)
	}

	out := make([]JobInfo, len(rows))
	for i, row := range rows {
		scheduledAt := ""
		if row.ScheduledAt != nil {
			scheduledAt = row.ScheduledAt.Format(time.RFC3339)
		}
		out[i] = JobInfo{
			ID:          row.ID,
			Kind:        row.Kind,
			EventID:     eventID.String(),
			State:       row.State,
			ScheduledAt: scheduledAt,
			Attempt:     int(row.Attempt),
		}
	}
	return out, nil
}

// HealthCheck verifies the queue service is healthy.
func (s *Service) HealthCheck(ctx context.Context) error {
	if s.client == nil {
		return fmt.Errorf("river client is nil")
	}
	var count int
	if err := s.db.NewSelect().Table("river_job").ColumnExpr("COUNT(*)").Scan(ctx, &count); err != nil {
		return fmt.Errorf("queue service health check failed: %w", err)
	}
	return nil
}
