package eventservice

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mint-edu/mint-backend/app/eventbus"
	eventdomain "github.com/mint-edu/mint-backend/app/modules/event/domain"
	eventdb "github.com/mint-edu/mint-backend/app/modules/event/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Event Repo
// ------------------------

type FakeEventRepo struct {
	trace []string

	CreateFunc      func(ctx context.Context, db bun.IDB, event *eventdb.Event) error
	GetByCodeFunc   func(ctx context.Context, db bun.IDB, code string) (*eventdb.Event, error)
	GetByIDFunc     func(ctx context.Context, db bun.IDB, id uuid.UUID) (*eventdb.Event, error)
	LockByCodeFunc  func(ctx context.Context, db bun.IDB, code string) (*eventdb.Event, error)
	LockByIDFunc    func(ctx context.Context, db bun.IDB, id uuid.UUID) (*eventdb.Event, error)
	ListFunc        func(ctx context.Context, db bun.IDB, states []eventdomain.State) ([]eventdb.Event, error)
	UpdateStateFunc func(ctx context.Context, db bun.IDB, event *eventdb.Event) error
}

func NewFakeEventRepo() *FakeEventRepo {
	return &FakeEventRepo{
		trace: []string{},
	}
}

func (f *FakeEventRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeEventRepo) Create(ctx context.Context, db bun.IDB, event *eventdb.Event) error {
	f.record("Create")
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, db, event)
	}
	return nil
}

func (f *FakeEventRepo) GetByCode(ctx context.Context, db bun.IDB, code string) (*eventdb.Event, error) {
	f.record("GetByCode")
	if f.GetByCodeFunc != nil {
		return f.GetByCodeFunc(ctx, db, code)
	}
	return nil, eventdb.ErrNotFound
}

func (f *FakeEventRepo) GetByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*eventdb.Event, error) {
	f.record("GetByID")
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, db, id)
	}
	return nil, eventdb.ErrNotFound
}

func (f *FakeEventRepo) LockByCode(ctx context.Context, db bun.IDB, code string) (*eventdb.Event, error) {
	f.record("LockByCode")
	if f.LockByCodeFunc != nil {
		return f.LockByCodeFunc(ctx, db, code)
	}
	return nil, eventdb.ErrNotFound
}

func (f *FakeEventRepo) LockByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*eventdb.Event, error) {
	f.record("LockByID")
	if f.LockByIDFunc != nil {
		return f.LockByIDFunc(ctx, db, id)
	}
	return nil, eventdb.ErrNotFound
}

func (f *FakeEventRepo) List(ctx context.Context, db bun.IDB, states []eventdomain.State) ([]eventdb.Event, error) {
	f.record("List")
	if f.ListFunc != nil {
		return f.ListFunc(ctx, db, states)
	}
	return []eventdb.Event{}, nil
}

func (f *FakeEventRepo) UpdateState(ctx context.Context, db bun.IDB, event *eventdb.Event) error {
	f.record("UpdateState")
	if f.UpdateStateFunc != nil {
		return f.UpdateStateFunc(ctx, db, event)
	}
	return nil
}

func (f *FakeEventRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

var _ eventdb.Repository = (*FakeEventRepo)(nil)

// ------------------------
// Fake Publisher
// ------------------------

type publishedMessage struct {
	Topic   string
	Payload any
}

type FakePublisher struct {
	mu       sync.Mutex
	messages []publishedMessage
	Err      error
}

func (f *FakePublisher) Publish(ctx context.Context, topic string, payload any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, publishedMessage{Topic: topic, Payload: payload})
	return f.Err
}

func (f *FakePublisher) Topics() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.messages))
	for _, m := range f.messages {
		out = append(out, m.Topic)
	}
	return out
}

func (f *FakePublisher) Last() publishedMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.messages[len(f.messages)-1]
}

var _ eventbus.Publisher = (*FakePublisher)(nil)

// ------------------------
// Fake Scheduler
// ------------------------

type scheduledAutoEnd struct {
	EventID uuid.UUID
	At      time.Time
}

type FakeScheduler struct {
	Scheduled []scheduledAutoEnd
	Err       error

	GetScheduledJobsFunc func(ctx context.Context, eventID uuid.UUID) ([]AutoEndJob, error)
}

func (f *FakeScheduler) ScheduleAutoEnd(ctx context.Context, eventID uuid.UUID, at time.Time) error {
	f.Scheduled = append(f.Scheduled, scheduledAutoEnd{EventID: eventID, At: at})
	return f.Err
}

func (f *FakeScheduler) GetScheduledJobs(ctx context.Context, eventID uuid.UUID) ([]AutoEndJob, error) {
	if f.GetScheduledJobsFunc != nil {
		return f.GetScheduledJobsFunc(ctx, eventID)
	}
	return nil, nil
}

var _ AutoEndScheduler = (*FakeScheduler)(nil)
