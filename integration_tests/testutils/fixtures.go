package testutils

import (
	"context"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	eventdomain "github.com/mint-edu/mint-backend/app/modules/event/domain"
	eventdb "github.com/mint-edu/mint-backend/app/modules/event/infrastructure/repositories"
	rundb "github.com/mint-edu/mint-backend/app/modules/run/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// NewEvent builds an unsaved event with random name and code.
func NewEvent(state eventdomain.State) *eventdb.Event {
	return &eventdb.Event{
		Code:            strings.ToUpper(gofakeit.LetterN(4)),
		Name:            gofakeit.Company(),
		SimURL:          "https://sim.example/play",
		SimType:         "portfolio_sim",
		ScenarioID:      "portfolio_basics",
		DurationMinutes: 45,
		State:           state,
	}
}

// InsertEvent saves an event and returns it with database defaults filled.
func InsertEvent(t *testing.T, db bun.IDB, state eventdomain.State) *eventdb.Event {
	t.Helper()
	event := NewEvent(state)
	if err := eventdb.NewRepository(db).Create(context.Background(), nil, event); err != nil {
		t.Fatalf("failed to insert event: %v", err)
	}
	return event
}

// InsertRun saves a run for the event.
func InsertRun(t *testing.T, db bun.IDB, event *eventdb.Event, userID string) *rundb.Run {
	t.Helper()
	run := &rundb.Run{EventID: event.ID, UserID: userID}
	if err := rundb.NewRepository(db).CreateRun(context.Background(), nil, run); err != nil {
		t.Fatalf("failed to insert run: %v", err)
	}
	return run
}
