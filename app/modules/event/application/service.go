package eventservice

import (
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
	"github.com/mint-edu/mint-backend/app/observability"
	"github.com/mint-edu/mint-backend/pkg/results"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// EventService implements the Service interface.
type EventService struct {
	repo      eventdb.Repository
	publisher eventbus.Publisher
	scheduler AutoEndScheduler
	signer    *SimLinkSigner
	cfg       Config
	logger    *slog.Logger
	metrics   observability.OperationMetrics
	tracer    trace.Tracer
	db        *bun.DB
	now       func() time.Time
}

// NewEventService creates a new EventService.
func NewEventService(
	repo eventdb.Repository,
	publisher eventbus.Publisher,
	cfg Config,
	logger *slog.Logger,
	metrics observability.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *EventService {
	if logger == nil {
		logger = slog.Default()
	}
	var signer *SimLinkSigner
	if cfg.SimAdminToken != "" {
		signer = NewSimLinkSigner(cfg.SimAdminToken, cfg.SimAdminLinkTTL)
	}
	return &EventService{
		repo:      repo,
		publisher: publisher,
		signer:    signer,
		cfg:       cfg,
		logger:    logger,
		metrics:   metrics,
		tracer:    tracer,
		db:        db,
		now:       time.Now,
	}
}

// SetAutoEndScheduler enables automatic ending of live events. The queue that
// implements the scheduler calls back into the service, so it is attached
// after construction.
func (s *EventService) SetAutoEndScheduler(scheduler AutoEndScheduler) {
	s.scheduler = scheduler
}

// CreateEvent validates the request, applies defaults and inserts the event.
func (s *EventService) CreateEvent(ctx context.Context, req CreateEventRequest) (*eventdb.Event, error) {
	event, err := s.buildEvent(req)
	if err != nil {
		return nil, err
	}

	createTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*eventdb.Event, error], error) {
		return s.createEventLogic(ctx, db, event)
	}

	result, err := withTelemetry(s, ctx, "CreateEvent", event.Code, func(ctx context.Context) (results.OperationResult[*eventdb.Event, error], error) {
		return runInTx(s, ctx, createTx)
	})
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}

	created := *result.Success
	s.publish(ctx, eventbus.EventCreatedTopic, eventbus.EventCreatedPayload{
		EventID:   created.ID.String(),
		Code:      created.Code,
		Name:      created.Name,
		State:     created.State.String(),
		CreatedBy: req.CreatedBy,
		CreatedAt: created.CreatedAt,
	})
	return created, nil
}

// buildEvent applies defaults and validation without touching the store.
func (s *EventService) buildEvent(req CreateEventRequest) (*eventdb.Event, error) {
	code := eventdomain.NormalizeCode(req.Code)
	name := strings.TrimSpace(req.Name)
	if code == "" || name == "" {
		return nil, ErrMissingFields
	}

	state := eventdomain.StateDraft
	if strings.TrimSpace(req.State) != "" {
		parsed, err := eventdomain.ParseState(req.State)
		if err != nil {
			return nil, fmt.Errorf("%w %q", ErrInvalidState, req.State)
		}
		state = parsed
	}
	if !state.IsInitial() {
		return nil, ErrInvalidInitialState
	}

	duration := DefaultDurationMinutes
	if req.DurationMinutes != nil {
		duration = *req.DurationMinutes
	}
	if duration < 1 {
		return nil, ErrInvalidDuration
	}

	simURL := strings.TrimSpace(req.SimURL)
	if simURL == "" {
		simURL = s.cfg.DefaultSimURL
	}
	if simURL != "" && !isAbsoluteHTTPURL(simURL) {
		return nil, ErrInvalidSimURL
	}

	now := s.now()
	startsAt, err := parseScheduleTime("startsAt", req.StartsAt, now)
	if err != nil {
		return nil, err
	}
	endsAt, err := parseScheduleTime("endsAt", req.EndsAt, now)
	if err != nil {
		return nil, err
	}
	if startsAt != nil && endsAt != nil && endsAt.Before(*startsAt) {
		return nil, fmt.Errorf("%w: endsAt is before startsAt", ErrInvalidSchedule)
	}

	return &eventdb.Event{
		ID:              uuid.New(),
		Code:            code,
		Name:            name,
		SimURL:          simURL,
		SimType:         orDefault(req.SimType, DefaultSimType),
		ScenarioID:      orDefault(req.ScenarioID, DefaultScenarioID),
		DurationMinutes: duration,
		State:           state,
		CreatedAt:       now.UTC(),
		StartsAt:        startsAt,
		EndsAt:          endsAt,
	}, nil
}

func (s *EventService) createEventLogic(ctx context.Context, db bun.IDB, event *eventdb.Event) (results.OperationResult[*eventdb.Event, error], error) {
	if err := s.repo.Create(ctx, db, event); err != nil {
		if errors.Is(err, eventdb.ErrDuplicateCode) {
			return results.FailureResult[*eventdb.Event, error](ErrDuplicateCode), nil
		}
		return results.OperationResult[*eventdb.Event, error]{}, fmt.Errorf("failed to create event: %w", err)
	}
	return results.SuccessResult[*eventdb.Event, error](event), nil
}

// ListEvents returns every event, newest first.
func (s *EventService) ListEvents(ctx context.Context) ([]eventdb.Event, error) {
	return s.list(ctx, "ListEvents", nil)
}

// ListPublicEvents returns events players may join or watch.
func (s *EventService) ListPublicEvents(ctx context.Context) ([]eventdb.Event, error) {
	return s.list(ctx, "ListPublicEvents", eventdomain.PublicStates)
}

func (s *EventService) list(ctx context.Context, operation string, states []eventdomain.State) ([]eventdb.Event, error) {
	result, err := withTelemetry(s, ctx, operation, "all", func(ctx context.Context) (results.OperationResult[[]eventdb.Event, error], error) {
		events, err := s.repo.List(ctx, s.dbOrNil(), states)
		if err != nil {
			return results.OperationResult[[]eventdb.Event, error]{}, fmt.Errorf("failed to list events: %w", err)
		}
		return results.SuccessResult[[]eventdb.Event, error](events), nil
	})
	if err != nil {
		return nil, err
	}
	return *result.Success, nil
}

// stateChange is the outcome of a state update.
type stateChange struct {
	event   *eventdb.Event
	from    eventdomain.State
	changed bool
}

// UpdateState moves an event along the lifecycle graph. Requesting the
// current state is a no-op that returns the unchanged event.
func (s *EventService) UpdateState(ctx context.Context, code, state string) (*eventdb.Event, error) {
	target, err := eventdomain.ParseState(state)
	if err != nil {
		return nil, fmt.Errorf("%w %q", ErrInvalidState, state)
	}
	code = eventdomain.NormalizeCode(code)

	updateTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[stateChange, error], error) {
		return s.updateStateLogic(ctx, db, code, target)
	}

	result, err := withTelemetry(s, ctx, "UpdateState", code, func(ctx context.Context) (results.OperationResult[stateChange, error], error) {
		return runInTx(s, ctx, updateTx)
	})
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}

	change := *result.Success
	if change.changed {
		s.afterStateChange(ctx, change, false)
	}
	return change.event, nil
}

func (s *EventService) updateStateLogic(ctx context.Context, db bun.IDB, code string, target eventdomain.State) (results.OperationResult[stateChange, error], error) {
	event, err := s.repo.LockByCode(ctx, db, code)
	if err != nil {
		if errors.Is(err, eventdb.ErrNotFound) {
			return results.FailureResult[stateChange, error](ErrEventNotFound), nil
		}
		return results.OperationResult[stateChange, error]{}, fmt.Errorf("failed to load event: %w", err)
	}

	from := event.State
	if from == target {
		return results.SuccessResult[stateChange, error](stateChange{event: event, from: from}), nil
	}
	if !from.CanTransitionTo(target) {
		return results.FailureResult[stateChange, error](
			fmt.Errorf("%w from %s to %s", ErrInvalidTransition, from, target),
		), nil
	}

	s.applyState(event, target)
	if err := s.repo.UpdateState(ctx, db, event); err != nil {
		return results.OperationResult[stateChange, error]{}, fmt.Errorf("failed to update event state: %w", err)
	}
	return results.SuccessResult[stateChange, error](stateChange{event: event, from: from, changed: true}), nil
}

// applyState sets the state and the lifecycle timestamps it implies.
func (s *EventService) applyState(event *eventdb.Event, target eventdomain.State) {
	now := s.now().UTC()
	event.State = target
	switch target {
	case eventdomain.StateLive:
		if event.StartedAt == nil {
			event.StartedAt = &now
		}
	case eventdomain.StateEnded:
		event.EndedAt = &now
	}
}

func (s *EventService) afterStateChange(ctx context.Context, change stateChange, automatic bool) {
	event := change.event
	s.publish(ctx, eventbus.EventStateChangedTopic, eventbus.EventStateChangedPayload{
		EventID:   event.ID.String(),
		Code:      event.Code,
		From:      change.from.String(),
		To:        event.State.String(),
		Automatic: automatic,
		ChangedAt: s.now().UTC(),
	})

	if event.State != eventdomain.StateLive || s.scheduler == nil {
		return
	}
	deadline, ok := event.Deadline()
	if !ok {
		return
	}
	if err := s.scheduler.ScheduleAutoEnd(ctx, event.ID, deadline); err != nil {
		s.logger.WarnContext(ctx, "Failed to schedule event auto-end",
			slog.String("event_code", event.Code),
			slog.Time("deadline", deadline),
			slog.Any("error", err),
		)
	}
}

// AutoEndEvent ends a live or paused event once its duration has elapsed.
func (s *EventService) AutoEndEvent(ctx context.Context, eventID uuid.UUID) (bool, error) {
	autoEndTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[stateChange, error], error) {
		return s.autoEndLogic(ctx, db, eventID)
	}

	result, err := withTelemetry(s, ctx, "AutoEndEvent", eventID.String(), func(ctx context.Context) (results.OperationResult[stateChange, error], error) {
		return runInTx(s, ctx, autoEndTx)
	})
	if err != nil {
		return false, err
	}
	if result.IsFailure() {
		return false, *result.Failure
	}

	change := *result.Success
	if change.changed {
		s.afterStateChange(ctx, change, true)
	}
	return change.changed, nil
}

func (s *EventService) autoEndLogic(ctx context.Context, db bun.IDB, eventID uuid.UUID) (results.OperationResult[stateChange, error], error) {
	event, err := s.repo.LockByID(ctx, db, eventID)
	if err != nil {
		if errors.Is(err, eventdb.ErrNotFound) {
			return results.FailureResult[stateChange, error](ErrEventNotFound), nil
		}
		return results.OperationResult[stateChange, error]{}, fmt.Errorf("failed to load event: %w", err)
	}

	unchanged := results.SuccessResult[stateChange, error](stateChange{event: event, from: event.State})
	if !event.State.CanTransitionTo(eventdomain.StateEnded) {
		return unchanged, nil
	}
	deadline, ok := event.Deadline()
	if !ok || s.now().Before(deadline) {
		return unchanged, nil
	}

	from := event.State
	s.applyState(event, eventdomain.StateEnded)
	if err := s.repo.UpdateState(ctx, db, event); err != nil {
		return results.OperationResult[stateChange, error]{}, fmt.Errorf("failed to end event: %w", err)
	}
	return results.SuccessResult[stateChange, error](stateChange{event: event, from: from, changed: true}), nil
}

// SimAdminLink returns the simulation admin URL carrying a short-lived token.
func (s *EventService) SimAdminLink(ctx context.Context, code, adminEmail string) (string, error) {
	if s.signer == nil {
		return "", ErrSimLinkNotConfigured
	}
	code = eventdomain.NormalizeCode(code)
	if code == "" {
		return "", ErrMissingEventCode
	}

	result, err := withTelemetry(s, ctx, "SimAdminLink", code, func(ctx context.Context) (results.OperationResult[string, error], error) {
		event, err := s.repo.GetByCode(ctx, s.dbOrNil(), code)
		if err != nil {
			if errors.Is(err, eventdb.ErrNotFound) {
				return results.FailureResult[string, error](ErrEventNotFound), nil
			}
			return results.OperationResult[string, error]{}, fmt.Errorf("failed to load event: %w", err)
		}

		simURL := event.SimURL
		if simURL == "" {
			simURL = s.cfg.DefaultSimURL
		}
		if simURL == "" {
			return results.FailureResult[string, error](ErrSimURLNotConfigured), nil
		}

		token, err := s.signer.Sign(event, adminEmail)
		if err != nil {
			return results.OperationResult[string, error]{}, err
		}
		link, err := buildAdminURL(simURL, event.Code, token)
		if err != nil {
			return results.OperationResult[string, error]{}, err
		}
		return results.SuccessResult[string, error](link), nil
	})
	if err != nil {
		return "", err
	}
	if result.IsFailure() {
		return "", *result.Failure
	}
	return *result.Success, nil
}

// ListAutoEndJobs returns the auto-end jobs recorded for an event. Without a
// queue the list is empty.
func (s *EventService) ListAutoEndJobs(ctx context.Context, code string) ([]AutoEndJob, error) {
	code = eventdomain.NormalizeCode(code)
	if code == "" {
		return nil, ErrMissingEventCode
	}

	result, err := withTelemetry(s, ctx, "ListAutoEndJobs", code, func(ctx context.Context) (results.OperationResult[[]AutoEndJob, error], error) {
		event, err := s.repo.GetByCode(ctx, s.dbOrNil(), code)
		if err != nil {
			if errors.Is(err, eventdb.ErrNotFound) {
				return results.FailureResult[[]AutoEndJob, error](ErrEventNotFound), nil
			}
			return results.OperationResult[[]AutoEndJob, error]{}, fmt.Errorf("failed to load event: %w", err)
		}
		if s.scheduler == nil {
			return results.SuccessResult[[]AutoEndJob, error]([]AutoEndJob{}), nil
		}
		jobs, err := s.scheduler.GetScheduledJobs(ctx, event.ID)
		if err != nil {
			return results.OperationResult[[]AutoEndJob, error]{}, err
		}
		return results.SuccessResult[[]AutoEndJob, error](jobs), nil
	})
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}
	return *result.Success, nil
}

func buildAdminURL(simURL, code, token string) (string, error) {
	u, err := url.Parse(simURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse sim url: %w", err)
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/admin"
	u.RawQuery = url.Values{
		"event_code": {code},
		"token":      {token},
	}.Encode()
	u.Fragment = ""
	return u.String(), nil
}

// publish sends a lifecycle notification. Failures are logged, never returned.
func (s *EventService) publish(ctx context.Context, topic string, payload any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, topic, payload); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish lifecycle event",
			slog.String("topic", topic),
			slog.Any("error", err),
		)
	}
}

// dbOrNil returns s.db as a bun.IDB, or nil so repositories use their default handle.
func (s *EventService) dbOrNil() bun.IDB {
	if s.db == nil {
		return nil
	}
	return s.db
}

func isAbsoluteHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}

// -----------------------------------------------------------------------------
// Generic Helpers (Defined as functions because methods cannot have type params)
// -----------------------------------------------------------------------------

// operationFunc is the generic signature for service operation functions.
type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *EventService,
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
		s.metrics.RecordOperationAttempt(ctx, operationName, "EventService")
	}

	startTime := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.RecordOperationDuration(ctx, operationName, "EventService", time.Since(startTime))
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
				s.metrics.RecordOperationFailure(ctx, operationName, "EventService")
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
			s.metrics.RecordOperationFailure(ctx, operationName, "EventService")
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
		s.metrics.RecordOperationSuccess(ctx, operationName, "EventService")
	}

	return result, nil
}

// runInTx ensures the operation runs within a transaction.
func runInTx[S any, F any](
	s *EventService,
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
