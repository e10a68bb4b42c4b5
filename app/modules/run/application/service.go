package runservice

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mint-edu/mint-backend/app/eventbus"
	eventdomain "github.com/mint-edu/mint-backend/app/modules/event/domain"
	eventdb "github.com/mint-edu/mint-backend/app/modules/event/infrastructure/repositories"
	rundb "github.com/mint-edu/mint-backend/app/modules/run/infrastructure/repositories"
	"github.com/mint-edu/mint-backend/app/observability"
	"github.com/mint-edu/mint-backend/db/bundb"
	"github.com/mint-edu/mint-backend/pkg/results"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Config holds the run service settings.
type Config struct {
	// DefaultSimURL is the launch base for events stored without a sim_url.
	DefaultSimURL string
}

// RunService implements the Service interface.
type RunService struct {
	cfg       Config
	repo      rundb.Repository
	eventRepo eventdb.Repository
	publisher eventbus.Publisher
	logger    *slog.Logger
	metrics   observability.OperationMetrics
	tracer    trace.Tracer
	db        *bun.DB
	now       func() time.Time
}

// NewRunService creates a new RunService.
func NewRunService(
	repo rundb.Repository,
	eventRepo eventdb.Repository,
	publisher eventbus.Publisher,
	logger *slog.Logger,
	metrics observability.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
	cfg Config,
) *RunService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RunService{
		cfg:       cfg,
		repo:      repo,
		eventRepo: eventRepo,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
		tracer:    tracer,
		db:        db,
		now:       time.Now,
	}
}

type createdRun struct {
	run     *rundb.Run
	event   *eventdb.Event
	baseURL string
}

// CreateRun looks up the event and inserts the run in one transaction.
func (s *RunService) CreateRun(ctx context.Context, req CreateRunRequest) (*CreateRunResponse, error) {
	code := eventdomain.NormalizeCode(req.EventCode)
	if code == "" {
		return nil, ErrMissingEventCode
	}
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		return nil, ErrMissingUserID
	}

	createTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[createdRun, error], error) {
		return s.createRunLogic(ctx, db, code, userID)
	}

	result, err := withTelemetry(s, ctx, "CreateRun", code, func(ctx context.Context) (results.OperationResult[createdRun, error], error) {
		return runInTx(s, ctx, createTx)
	})
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}

	created := *result.Success
	simURL, err := buildLaunchURL(created.baseURL, created.event, created.run.ID)
	if err != nil {
		return nil, err
	}

	if req.Profile != nil {
		s.upsertPlayer(ctx, userID, req.Profile)
	}

	s.publish(ctx, eventbus.RunCreatedTopic, eventbus.RunCreatedPayload{
		RunID:     created.run.ID.String(),
		EventID:   created.event.ID.String(),
		EventCode: created.event.Code,
		UserID:    userID,
	})

	return &CreateRunResponse{RunID: created.run.ID.String(), SimURL: simURL}, nil
}

func (s *RunService) createRunLogic(ctx context.Context, db bun.IDB, code, userID string) (results.OperationResult[createdRun, error], error) {
	event, err := s.eventRepo.GetByCode(ctx, db, code)
	if err != nil {
		if errors.Is(err, eventdb.ErrNotFound) {
			return results.FailureResult[createdRun, error](ErrEventNotFound), nil
		}
		return results.OperationResult[createdRun, error]{}, fmt.Errorf("failed to load event: %w", err)
	}

	baseURL := strings.TrimSpace(event.SimURL)
	if baseURL == "" {
		baseURL = s.cfg.DefaultSimURL
	}
	if baseURL == "" {
		return results.FailureResult[createdRun, error](ErrSimURLNotConfigured), nil
	}

	run := &rundb.Run{
		ID:        uuid.New(),
		EventID:   event.ID,
		UserID:    userID,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.CreateRun(ctx, db, run); err != nil {
		return results.OperationResult[createdRun, error]{}, err
	}
	return results.SuccessResult[createdRun, error](createdRun{run: run, event: event, baseURL: baseURL}), nil
}

// buildLaunchURL appends the run identifiers to the simulation base URL,
// keeping any query parameters it already has.
func buildLaunchURL(baseURL string, event *eventdb.Event, runID uuid.UUID) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse sim url: %w", err)
	}
	q := u.Query()
	q.Set("run_id", runID.String())
	q.Set("event_id", event.ID.String())
	q.Set("event_code", event.Code)
	if event.ScenarioID != "" {
		q.Set("scenario_id", event.ScenarioID)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (s *RunService) upsertPlayer(ctx context.Context, userID string, profile *PlayerProfile) {
	player := &rundb.Player{
		UserID:      userID,
		DisplayName: strings.TrimSpace(profile.DisplayName),
		Email:       strings.ToLower(strings.TrimSpace(profile.Email)),
		UpdatedAt:   s.now().UTC(),
	}
	if err := s.repo.UpsertPlayer(ctx, s.dbOrNil(), player); err != nil {
		s.logger.WarnContext(ctx, "Failed to upsert player profile",
			slog.String("user_id", userID),
			slog.Any("error", err),
		)
	}
}

// SubmitResults locks the run, rejects a second submission and writes the
// result together with finished_at.
func (s *RunService) SubmitResults(ctx context.Context, req SubmitResultsRequest) error {
	rawID := strings.TrimSpace(req.RunID)
	if rawID == "" {
		return ErrMissingRunID
	}
	if req.Score == nil {
		return ErrInvalidScore
	}
	runID, err := uuid.Parse(rawID)
	if err != nil {
		return ErrRunNotFound
	}

	result := &rundb.RunResult{
		RunID:       runID,
		Score:       *req.Score,
		PnL:         req.PnL,
		Sharpe:      req.Sharpe,
		MaxDrawdown: req.MaxDrawdown,
		WinRate:     req.WinRate,
		Extra:       normalizeExtra(req.Extra),
	}

	submitTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*rundb.Run, error], error) {
		return s.submitLogic(ctx, db, result)
	}

	opResult, err := withTelemetry(s, ctx, "SubmitResults", runID.String(), func(ctx context.Context) (results.OperationResult[*rundb.Run, error], error) {
		return runInTx(s, ctx, submitTx)
	})
	if err != nil {
		return err
	}
	if opResult.IsFailure() {
		return *opResult.Failure
	}

	run := *opResult.Success
	s.publish(ctx, eventbus.RunFinishedTopic, eventbus.RunFinishedPayload{
		RunID:   run.ID.String(),
		EventID: run.EventID.String(),
		Score:   result.Score,
		PnL:     result.PnL,
	})
	return nil
}

func (s *RunService) submitLogic(ctx context.Context, db bun.IDB, result *rundb.RunResult) (results.OperationResult[*rundb.Run, error], error) {
	run, err := s.repo.LockRun(ctx, db, result.RunID)
	if err != nil {
		if errors.Is(err, rundb.ErrNotFound) {
			return results.FailureResult[*rundb.Run, error](ErrRunNotFound), nil
		}
		return results.OperationResult[*rundb.Run, error]{}, err
	}

	exists, err := s.repo.ResultExists(ctx, db, run.ID)
	if err != nil {
		return results.OperationResult[*rundb.Run, error]{}, err
	}
	if exists || run.FinishedAt != nil {
		return results.FailureResult[*rundb.Run, error](ErrAlreadySubmitted), nil
	}

	if err := s.repo.InsertResult(ctx, db, result); err != nil {
		if errors.Is(err, rundb.ErrDuplicateResult) || bundb.IsUniqueViolation(err) {
			return results.FailureResult[*rundb.Run, error](ErrAlreadySubmitted), nil
		}
		return results.OperationResult[*rundb.Run, error]{}, err
	}

	finishedAt := s.now().UTC()
	if err := s.repo.MarkFinished(ctx, db, run.ID, finishedAt); err != nil {
		return results.OperationResult[*rundb.Run, error]{}, err
	}
	run.FinishedAt = &finishedAt
	return results.SuccessResult[*rundb.Run, error](run), nil
}

// normalizeExtra drops an explicit JSON null so the column stays NULL.
func normalizeExtra(raw []byte) []byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	return trimmed
}

// GetRun returns a run with its event and result. Malformed ids are reported
// as not found.
func (s *RunService) GetRun(ctx context.Context, runID string) (*rundb.Run, error) {
	id, err := uuid.Parse(strings.TrimSpace(runID))
	if err != nil {
		return nil, ErrRunNotFound
	}

	result, err := withTelemetry(s, ctx, "GetRun", id.String(), func(ctx context.Context) (results.OperationResult[*rundb.Run, error], error) {
		run, err := s.repo.GetRun(ctx, s.dbOrNil(), id)
		if err != nil {
			if errors.Is(err, rundb.ErrNotFound) {
				return results.FailureResult[*rundb.Run, error](ErrRunNotFound), nil
			}
			return results.OperationResult[*rundb.Run, error]{}, err
		}
		return results.SuccessResult[*rundb.Run, error](run), nil
	})
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}
	return *result.Success, nil
}

// ListUserRuns returns a user's runs newest first.
func (s *RunService) ListUserRuns(ctx context.Context, userID string) ([]rundb.Run, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrMissingUserID
	}

	result, err := withTelemetry(s, ctx, "ListUserRuns", userID, func(ctx context.Context) (results.OperationResult[[]rundb.Run, error], error) {
		runs, err := s.repo.ListByUser(ctx, s.dbOrNil(), userID)
		if err != nil {
			return results.OperationResult[[]rundb.Run, error]{}, err
		}
		return results.SuccessResult[[]rundb.Run, error](runs), nil
	})
	if err != nil {
		return nil, err
	}
	return *result.Success, nil
}

func (s *RunService) publish(ctx context.Context, topic string, payload any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, topic, payload); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish run event",
			slog.String("topic", topic),
			slog.Any("error", err),
		)
	}
}

func (s *RunService) dbOrNil() bun.IDB {
	if s.db == nil {
		return nil
	}
	return s.db
}

// -----------------------------------------------------------------------------
// Generic Helpers
// -----------------------------------------------------------------------------

type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *RunService,
	ctx context.Context,
	operationName string,
	identifier string,
	op operationFunc[S, F],
) (result results.OperationResult[S, F], err error) {
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
		s.metrics.RecordOperationAttempt(ctx, operationName, "RunService")
	}

	startTime := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.RecordOperationDuration(ctx, operationName, "RunService", time.Since(startTime))
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
				s.metrics.RecordOperationFailure(ctx, operationName, "RunService")
			}
			span.RecordError(err)
			result = results.OperationResult[S, F]{}
		}
	}()

	result, err = op(ctx)

	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			slog.String("operation", operationName),
			slog.String("identifier", identifier),
			slog.Any("error", wrappedErr),
		)
		if s.metrics != nil {
			s.metrics.RecordOperationFailure(ctx, operationName, "RunService")
		}
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	if result.IsFailure() {
		s.logger.WarnContext(ctx, "Operation returned failure result",
			slog.String("operation", operationName),
			slog.String("identifier", identifier),
			slog.Any("failure_payload", *result.Failure),
		)
	}

	if s.metrics != nil {
		s.metrics.RecordOperationSuccess(ctx, operationName, "RunService")
	}

	return result, nil
}

// runInTx ensures the operation runs within a transaction.
func runInTx[S any, F any](
	s *RunService,
	ctx context.Context,
	fn func(ctx context.Context, db bun.IDB) (results.OperationResult[S, F], error),
) (results.OperationResult[S, F], error) {
	if s.db == nil {
		return fn(ctx, nil)
	}

	var result results.OperationResult[S, F]

	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		return txErr
	})

	return result, err
}
