package observability

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Observability bundles the logger, metrics registry and tracer that every
// module receives at construction time.
type Observability struct {
	Logger   *slog.Logger
	Registry *prometheus.Registry
	Tracer   trace.Tracer
}

// Config controls logger output.
type Config struct {
	ServiceName string
	Environment string
	LogLevel    string
}

// New builds the process-wide observability bundle. The tracer comes from the
// global otel provider, which is a noop unless an SDK has been installed.
func New(cfg Config) Observability {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	logger := NewLogger(os.Stdout, cfg.Environment, cfg.LogLevel).With(
		slog.String("service", cfg.ServiceName),
		slog.String("env", cfg.Environment),
	)

	return Observability{
		Logger:   logger,
		Registry: registry,
		Tracer:   otel.Tracer(cfg.ServiceName),
	}
}

// NewNoop returns a bundle that discards logs and traces. Used in tests.
func NewNoop() Observability {
	return Observability{
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Registry: prometheus.NewRegistry(),
		Tracer:   noop.NewTracerProvider().Tracer("test"),
	}
}

// NewLogger returns a JSON logger outside development and a text logger in it.
func NewLogger(w io.Writer, environment, level string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	if environment == "" || environment == "development" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// ParseLevel maps a level name to a slog.Level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
