package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OperationMetrics records the outcome of service operations.
type OperationMetrics interface {
	RecordOperationAttempt(ctx context.Context, operation, service string)
	RecordOperationSuccess(ctx context.Context, operation, service string)
	RecordOperationFailure(ctx context.Context, operation, service string)
	RecordOperationDuration(ctx context.Context, operation, service string, duration time.Duration)
}

type promOperationMetrics struct {
	attempts *prometheus.CounterVec
	success  *prometheus.CounterVec
	failures *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewOperationMetrics registers the operation collectors for one subsystem.
func NewOperationMetrics(reg prometheus.Registerer, subsystem string) OperationMetrics {
	labels := []string{"operation", "service"}
	m := &promOperationMetrics{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mint",
			Subsystem: subsystem,
			Name:      "operation_attempts_total",
			Help:      "Number of service operations started.",
		}, labels),
		success: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mint",
			Subsystem: subsystem,
			Name:      "operation_success_total",
			Help:      "Number of service operations that completed without an infrastructure error.",
		}, labels),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mint",
			Subsystem: subsystem,
			Name:      "operation_failures_total",
			Help:      "Number of service operations that failed with an infrastructure error or panic.",
		}, labels),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "mint",
			Subsystem: subsystem,
			Name:      "operation_duration_seconds",
			Help:      "Service operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, labels),
	}
	reg.MustRegister(m.attempts, m.success, m.failures, m.duration)
	return m
}

func (m *promOperationMetrics) RecordOperationAttempt(_ context.Context, operation, service string) {
	m.attempts.WithLabelValues(operation, service).Inc()
}

func (m *promOperationMetrics) RecordOperationSuccess(_ context.Context, operation, service string) {
	m.success.WithLabelValues(operation, service).Inc()
}

func (m *promOperationMetrics) RecordOperationFailure(_ context.Context, operation, service string) {
	m.failures.WithLabelValues(operation, service).Inc()
}

func (m *promOperationMetrics) RecordOperationDuration(_ context.Context, operation, service string, duration time.Duration) {
	m.duration.WithLabelValues(operation, service).Observe(duration.Seconds())
}

type noopOperationMetrics struct{}

// NewNoopMetrics returns metrics that record nothing.
func NewNoopMetrics() OperationMetrics { return noopOperationMetrics{} }

func (noopOperationMetrics) RecordOperationAttempt(context.Context, string, string) {}
func (noopOperationMetrics) RecordOperationSuccess(context.Context, string, string) {}
func (noopOperationMetrics) RecordOperationFailure(context.Context, string, string) {}
func (noopOperationMetrics) RecordOperationDuration(context.Context, string, string, time.Duration) {}
