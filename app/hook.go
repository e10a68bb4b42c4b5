package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// shutdown stops accepting requests, drains in-flight ones and closes the
// app within shutdownTimeout.
func (app *App) shutdown(srv *http.Server) error {
	logger := app.Observability.Logger
	logger.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if err := srv.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}
	if err := app.Close(ctx); err != nil {
		errs = append(errs, err)
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}
	logger.Info("Shutdown complete")
	return nil
}
