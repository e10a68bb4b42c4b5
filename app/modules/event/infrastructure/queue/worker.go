package eventqueue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	eventservice "github.com/mint-edu/mint-backend/app/modules/event/application"
	"github.com/riverqueue/river"
)

// AutoEnder is the part of the event service the worker drives.
type AutoEnder interface {
	AutoEndEvent(ctx context.Context, eventID uuid.UUID) (bool, error)
}

// EventAutoEndWorker ends events whose deadline has passed. Running it twice,
// or for an event that was ended by hand, is a no-op.
type EventAutoEndWorker struct {
	river.WorkerDefaults[EventAutoEndJob]
	ender  AutoEnder
	logger *slog.Logger
}

// NewEventAutoEndWorker creates a new worker.
func NewEventAutoEndWorker(logger *slog.Logger, ender AutoEnder) *EventAutoEndWorker {
	return &EventAutoEndWorker{ender: ender, logger: logger}
}

func (w *EventAutoEndWorker) Work(ctx context.Context, job *river.Job[EventAutoEndJob]) error {
	eventID, err := uuid.Parse(job.Args.EventID)
	if err != nil {
		return river.JobCancel(fmt.Errorf("invalid event id %q: %w", job.Args.EventID, err))
	}

	ended, err := w.ender.AutoEndEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, eventservice.ErrEventNotFound) {
			return river.JobCancel(err)
		}
		w.logger.ErrorContext(ctx, "Event auto-end failed",
			slog.String("event_id", eventID.String()),
			slog.Any("error", err),
		)
		return err
	}

	w.logger.InfoContext(ctx, "Event auto-end processed",
		slog.String("event_id", eventID.String()),
		slog.Bool("ended", ended),
	)
	return nil
}
