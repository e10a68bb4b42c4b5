package eventhandlers

import (
	"context"

	"github.com/google/uuid"
	eventservice "github.com/mint-edu/mint-backend/app/modules/event/application"
	eventdb "github.com/mint-edu/mint-backend/app/modules/event/infrastructure/repositories"
)

// ------------------------
// Fake Event Service
// ------------------------

type FakeService struct {
	trace []string

	CreateEventFunc      func(ctx context.Context, req eventservice.CreateEventRequest) (*eventdb.Event, error)
	ListEventsFunc       func(ctx context.Context) ([]eventdb.Event, error)
	ListPublicEventsFunc func(ctx context.Context) ([]eventdb.Event, error)
	UpdateStateFunc      func(ctx context.Context, code, state string) (*eventdb.Event, error)
	SimAdminLinkFunc     func(ctx context.Context, code, adminEmail string) (string, error)
	AutoEndEventFunc     func(ctx context.Context, eventID uuid.UUID) (bool, error)
	ListAutoEndJobsFunc  func(ctx context.Context, code string) ([]eventservice.AutoEndJob, error)
}

func (f *FakeService) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeService) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeService) CreateEvent(ctx context.Context, req eventservice.CreateEventRequest) (*eventdb.Event, error) {
	f.record("CreateEvent")
	if f.CreateEventFunc != nil {
		return f.CreateEventFunc(ctx, req)
	}
	return &eventdb.Event{}, nil
}

func (f *FakeService) ListEvents(ctx context.Context) ([]eventdb.Event, error) {
	f.record("ListEvents")
	if f.ListEventsFunc != nil {
		return f.ListEventsFunc(ctx)
	}
	return nil, nil
}

func (f *FakeService) ListPublicEvents(ctx context.Context) ([]eventdb.Event, error) {
	f.record("ListPublicEvents")
	if f.ListPublicEventsFunc != nil {
		return f.ListPublicEventsFunc(ctx)
	}
	return nil, nil
}

func (f *FakeService) UpdateState(ctx context.Context, code, state string) (*eventdb.Event, error) {
	f.record("UpdateState")
	if f.UpdateStateFunc != nil {
		return f.UpdateStateFunc(ctx, code, state)
	}
	return &eventdb.Event{}, nil
}

func (f *FakeService) SimAdminLink(ctx context.Context, code, adminEmail string) (string, error) {
	f.record("SimAdminLink")
	if f.SimAdminLinkFunc != nil {
		return f.SimAdminLinkFunc(ctx, code, adminEmail)
	}
	return "", nil
}

func (f *FakeService) AutoEndEvent(ctx context.Context, eventID uuid.UUID) (bool, error) {
	f.record("AutoEndEvent")
	if f.AutoEndEventFunc != nil {
		return f.AutoEndEventFunc(ctx, eventID)
	}
	return false, nil
}

func (f *FakeService) ListAutoEndJobs(ctx context.Context, code string) ([]eventservice.AutoEndJob, error) {
	f.record("ListAutoEndJobs")
	if f.ListAutoEndJobsFunc != nil {
		return f.ListAutoEndJobsFunc(ctx, code)
	}
	return nil, nil
}

var _ eventservice.Service = (*FakeService)(nil)
