package leaderboardservice

import (
	"context"

	"github.com/google/uuid"
	eventdomain "github.com/mint-edu/mint-backend/app/modules/event/domain"
	eventdb "github.com/mint-edu/mint-backend/app/modules/event/infrastructure/repositories"
	leaderboarddomain "github.com/mint-edu/mint-backend/app/modules/leaderboard/domain"
	leaderboarddb "github.com/mint-edu/mint-backend/app/modules/leaderboard/infrastructure/repositories"
	"github.com/uptrace/bun"
)

type FakeLeaderboardRepo struct {
	FinishedEntriesFunc func(ctx context.Context, db bun.IDB, eventID uuid.UUID) ([]leaderboarddomain.Entry, error)
}

func (f *FakeLeaderboardRepo) FinishedEntries(ctx context.Context, db bun.IDB, eventID uuid.UUID) ([]leaderboarddomain.Entry, error) {
	if f.FinishedEntriesFunc != nil {
		return f.FinishedEntriesFunc(ctx, db, eventID)
	}
	return nil, nil
}

var _ leaderboarddb.Repository = (*FakeLeaderboardRepo)(nil)

// FakeEventRepo serves events from a map keyed by code.
type FakeEventRepo struct {
	Events map[string]*eventdb.Event
	Err    error
}

func (f *FakeEventRepo) Create(ctx context.Context, db bun.IDB, event *eventdb.Event) error {
	return nil
}

func (f *FakeEventRepo) GetByCode(ctx context.Context, db bun.IDB, code string) (*eventdb.Event, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	if e, ok := f.Events[code]; ok {
		return e, nil
	}
	return nil, eventdb.ErrNotFound
}

func (f *FakeEventRepo) GetByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*eventdb.Event, error) {
	return nil, eventdb.ErrNotFound
}

func (f *FakeEventRepo) LockByCode(ctx context.Context, db bun.IDB, code string) (*eventdb.Event, error) {
	return f.GetByCode(ctx, db, code)
}

func (f *FakeEventRepo) LockByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*eventdb.Event, error) {
	return nil, eventdb.ErrNotFound
}

func (f *FakeEventRepo) List(ctx context.Context, db bun.IDB, states []eventdomain.State) ([]eventdb.Event, error) {
	return nil, nil
}

func (f *FakeEventRepo) UpdateState(ctx context.Context, db bun.IDB, event *eventdb.Event) error {
	return nil
}

var _ eventdb.Repository = (*FakeEventRepo)(nil)
