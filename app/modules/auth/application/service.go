package authservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	authdomain "github.com/mint-edu/mint-backend/app/modules/auth/domain"
	authdb "github.com/mint-edu/mint-backend/app/modules/auth/infrastructure/repositories"
	authverifier "github.com/mint-edu/mint-backend/app/modules/auth/infrastructure/verifier"
	"github.com/mint-edu/mint-backend/app/observability"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// AuthService implements the Service interface.
type AuthService struct {
	verifier authverifier.TokenVerifier
	repo     authdb.Repository
	logger   *slog.Logger
	metrics  observability.OperationMetrics
	tracer   trace.Tracer
}

// NewAuthService creates a new AuthService. The allowlist is read on every
// call; nothing is cached.
func NewAuthService(
	verifier authverifier.TokenVerifier,
	repo authdb.Repository,
	logger *slog.Logger,
	metrics observability.OperationMetrics,
	tracer trace.Tracer,
) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		verifier: verifier,
		repo:     repo,
		logger:   logger,
		metrics:  metrics,
		tracer:   tracer,
	}
}

func (s *AuthService) Authenticate(ctx context.Context, token string) (*authdomain.User, error) {
	user, err := s.verifier.Verify(ctx, token)
	if err != nil {
		s.logger.DebugContext(ctx, "Bearer token rejected", slog.Any("error", err))
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	return user, nil
}

func (s *AuthService) AdminStatus(ctx context.Context, user *authdomain.User) (*AdminStatus, error) {
	var status *AdminStatus
	err := s.withTelemetry(ctx, "AdminStatus", user.ID, func(ctx context.Context) error {
		keys := authdomain.Candidates(user.Email)
		if len(keys) == 0 {
			status = &AdminStatus{Detail: "account has no email address"}
			return nil
		}
		ok, err := s.repo.AnyAllowed(ctx, nil, keys)
		if err != nil {
			return err
		}
		if ok {
			status = &AdminStatus{IsAdmin: true, Detail: fmt.Sprintf("%s is allowlisted", keys[0])}
		} else {
			status = &AdminStatus{Detail: fmt.Sprintf("%s is not in admin_allowlist", keys[0])}
		}
		return nil
	})
	return status, err
}

func (s *AuthService) Authorize(ctx context.Context, user *authdomain.User) error {
	if user == nil {
		return ErrUnauthorized
	}
	status, err := s.AdminStatus(ctx, user)
	if err != nil {
		return err
	}
	if !status.IsAdmin {
		return ErrForbidden
	}
	return nil
}

func (s *AuthService) AddAdmin(ctx context.Context, entry string) (string, error) {
	entry, err := authdomain.ParseEntry(entry)
	if err != nil {
		return "", err
	}
	err = s.withTelemetry(ctx, "AddAdmin", entry, func(ctx context.Context) error {
		return s.repo.Add(ctx, nil, entry)
	})
	if err != nil {
		return "", err
	}
	s.logger.InfoContext(ctx, "Admin allowlist entry added", slog.String("entry", entry))
	return entry, nil
}

func (s *AuthService) RemoveAdmin(ctx context.Context, entry string) error {
	entry, err := authdomain.ParseEntry(entry)
	if err != nil {
		return err
	}
	err = s.withTelemetry(ctx, "RemoveAdmin", entry, func(ctx context.Context) error {
		return s.repo.Remove(ctx, nil, entry)
	})
	if err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Admin allowlist entry removed", slog.String("entry", entry))
	return nil
}

func (s *AuthService) ListAdmins(ctx context.Context) ([]authdb.AllowlistEntry, error) {
	var entries []authdb.AllowlistEntry
	err := s.withTelemetry(ctx, "ListAdmins", "", func(ctx context.Context) error {
		var err error
		entries, err = s.repo.List(ctx, nil)
		return err
	})
	return entries, err
}

// withTelemetry wraps an allowlist operation with a span and metrics.
func (s *AuthService) withTelemetry(ctx context.Context, operationName, identifier string, op func(ctx context.Context) error) error {
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
		s.metrics.RecordOperationAttempt(ctx, operationName, "AuthService")
		start := time.Now()
		defer func() {
			s.metrics.RecordOperationDuration(ctx, operationName, "AuthService", time.Since(start))
		}()
	}

	if err := op(ctx); err != nil {
		if !errors.Is(err, authdb.ErrNotFound) {
			s.logger.ErrorContext(ctx, "Operation failed with error",
				slog.String("operation", operationName),
				slog.String("identifier", identifier),
				slog.Any("error", err),
			)
		}
		if s.metrics != nil {
			s.metrics.RecordOperationFailure(ctx, operationName, "AuthService")
		}
		span.RecordError(err)
		return fmt.Errorf("%s: %w", operationName, err)
	}

	if s.metrics != nil {
		s.metrics.RecordOperationSuccess(ctx, operationName, "AuthService")
	}
	return nil
}
