package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// shutdownTimeout bounds graceful shutdown of the HTTP server and modules.
const shutdownTimeout = 10 * time.Second

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (app *App) Run(ctx context.Context) error {
	logger := app.Observability.Logger

	if err := app.EventModule.Start(ctx); err != nil {
		return fmt.Errorf("failed to start event module: %w", err)
	}

	srv := &http.Server{
		Addr:         app.Config.HTTP.Addr(),
		Handler:      app.router,
		ReadTimeout:  app.Config.HTTP.ReadTimeout,
		WriteTimeout: app.Config.HTTP.WriteTimeout,
		IdleTimeout:  app.Config.HTTP.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.InfoContext(ctx, "HTTP server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	return app.shutdown(srv)
}
