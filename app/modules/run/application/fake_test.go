package runservice

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mint-edu/mint-backend/app/eventbus"
	eventdomain "github.com/mint-edu/mint-backend/app/modules/event/domain"
	eventdb "github.com/mint-edu/mint-backend/app/modules/event/infrastructure/repositories"
	rundb "github.com/mint-edu/mint-backend/app/modules/run/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Postgres Error
// ------------------------

// sqlStateError mimics pgdriver.Error, reporting its SQLSTATE under field 'C'.
type sqlStateError struct {
	code string
}

func (e sqlStateError) Error() string { return "ERROR #" + e.code }

func (e sqlStateError) Field(k byte) string {
	if k == 'C' {
		return e.code
	}
	return ""
}

// ------------------------
// Fake Run Repo
// ------------------------

type FakeRunRepo struct {
	trace []string

	CreateRunFunc    func(ctx context.Context, db bun.IDB, run *rundb.Run) error
	GetRunFunc       func(ctx context.Context, db bun.IDB, id uuid.UUID) (*rundb.Run, error)
	LockRunFunc      func(ctx context.Context, db bun.IDB, id uuid.UUID) (*rundb.Run, error)
	ResultExistsFunc func(ctx context.Context, db bun.IDB, runID uuid.UUID) (bool, error)
	InsertResultFunc func(ctx context.Context, db bun.IDB, result *rundb.RunResult) error
	MarkFinishedFunc func(ctx context.Context, db bun.IDB, runID uuid.UUID, at time.Time) error
	ListByUserFunc   func(ctx context.Context, db bun.IDB, userID string) ([]rundb.Run, error)
	UpsertPlayerFunc func(ctx context.Context, db bun.IDB, player *rundb.Player) error
}

func NewFakeRunRepo() *FakeRunRepo {
	return &FakeRunRepo{trace: []string{}}
}

func (f *FakeRunRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeRunRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeRunRepo) CreateRun(ctx context.Context, db bun.IDB, run *rundb.Run) error {
	f.record("CreateRun")
	if f.CreateRunFunc != nil {
		return f.CreateRunFunc(ctx, db, run)
	}
	return nil
}

func (f *FakeRunRepo) GetRun(ctx context.Context, db bun.IDB, id uuid.UUID) (*rundb.Run, error) {
	f.record("GetRun")
	if f.GetRunFunc != nil {
		return f.GetRunFunc(ctx, db, id)
	}
	return nil, rundb.ErrNotFound
}

func (f *FakeRunRepo) LockRun(ctx context.Context, db bun.IDB, id uuid.UUID) (*rundb.Run, error) {
	f.record("LockRun")
	if f.LockRunFunc != nil {
		return f.LockRunFunc(ctx, db, id)
	}
	return nil, rundb.ErrNotFound
}

func (f *FakeRunRepo) ResultExists(ctx context.Context, db bun.IDB, runID uuid.UUID) (bool, error) {
	f.record("ResultExists")
	if f.ResultExistsFunc != nil {
		return f.ResultExistsFunc(ctx, db, runID)
	}
	return false, nil
}

func (f *FakeRunRepo) InsertResult(ctx context.Context, db bun.IDB, result *rundb.RunResult) error {
	f.record("InsertResult")
	if f.InsertResultFunc != nil {
		return f.InsertResultFunc(ctx, db, result)
	}
	return nil
}

func (f *FakeRunRepo) MarkFinished(ctx context.Context, db bun.IDB, runID uuid.UUID, at time.Time) error {
	f.record("MarkFinished")
	if f.MarkFinishedFunc != nil {
		return f.MarkFinishedFunc(ctx, db, runID, at)
	}
	return nil
}

func (f *FakeRunRepo) ListByUser(ctx context.Context, db bun.IDB, userID string) ([]rundb.Run, error) {
	f.record("ListByUser")
	if f.ListByUserFunc != nil {
		return f.ListByUserFunc(ctx, db, userID)
	}
	return []rundb.Run{}, nil
}

func (f *FakeRunRepo) UpsertPlayer(ctx context.Context, db bun.IDB, player *rundb.Player) error {
	f.record("UpsertPlayer")
	if f.UpsertPlayerFunc != nil {
		return f.UpsertPlayerFunc(ctx, db, player)
	}
	return nil
}

var _ rundb.Repository = (*FakeRunRepo)(nil)

// ------------------------
// Fake Event Repo
// ------------------------

// FakeEventRepo only answers GetByCode; the run service needs nothing else.
type FakeEventRepo struct {
	GetByCodeFunc func(ctx context.Context, db bun.IDB, code string) (*eventdb.Event, error)
}

func (f *FakeEventRepo) Create(ctx context.Context, db bun.IDB, event *eventdb.Event) error {
	return nil
}

func (f *FakeEventRepo) GetByCode(ctx context.Context, db bun.IDB, code string) (*eventdb.Event, error) {
	if f.GetByCodeFunc != nil {
		return f.GetByCodeFunc(ctx, db, code)
	}
	return nil, eventdb.ErrNotFound
}

func (f *FakeEventRepo) GetByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*eventdb.Event, error) {
	return nil, eventdb.ErrNotFound
}

func (f *FakeEventRepo) LockByCode(ctx context.Context, db bun.IDB, code string) (*eventdb.Event, error) {
	return nil, eventdb.ErrNotFound
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

// ------------------------
// Fake Publisher
// ------------------------

type FakePublisher struct {
	mu     sync.Mutex
	topics []string
	last   any
	Err    error
}

func (f *FakePublisher) Publish(ctx context.Context, topic string, payload any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.topics = append(f.topics, topic)
	f.last = payload
	return f.Err
}

func (f *FakePublisher) Topics() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.topics...)
}

var _ eventbus.Publisher = (*FakePublisher)(nil)
