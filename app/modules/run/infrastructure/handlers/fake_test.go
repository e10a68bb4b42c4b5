package runhandlers

import (
	"context"

	runservice "github.com/mint-edu/mint-backend/app/modules/run/application"
	rundb "github.com/mint-edu/mint-backend/app/modules/run/infrastructure/repositories"
)

// ------------------------
// Fake Run Service
// ------------------------

type FakeService struct {
	CreateRunFunc     func(ctx context.Context, req runservice.CreateRunRequest) (*runservice.CreateRunResponse, error)
	SubmitResultsFunc func(ctx context.Context, req runservice.SubmitResultsRequest) error
	GetRunFunc        func(ctx context.Context, runID string) (*rundb.Run, error)
	ListUserRunsFunc  func(ctx context.Context, userID string) ([]rundb.Run, error)
}

func (f *FakeService) CreateRun(ctx context.Context, req runservice.CreateRunRequest) (*runservice.CreateRunResponse, error) {
	if f.CreateRunFunc != nil {
		return f.CreateRunFunc(ctx, req)
	}
	return &runservice.CreateRunResponse{}, nil
}

func (f *FakeService) SubmitResults(ctx context.Context, req runservice.SubmitResultsRequest) error {
	if f.SubmitResultsFunc != nil {
		return f.SubmitResultsFunc(ctx, req)
	}
	return nil
}

func (f *FakeService) GetRun(ctx context.Context, runID string) (*rundb.Run, error) {
	if f.GetRunFunc != nil {
		return f.GetRunFunc(ctx, runID)
	}
	return nil, runservice.ErrRunNotFound
}

func (f *FakeService) ListUserRuns(ctx context.Context, userID string) ([]rundb.Run, error) {
	if f.ListUserRunsFunc != nil {
		return f.ListUserRunsFunc(ctx, userID)
	}
	return nil, nil
}

var _ runservice.Service = (*FakeService)(nil)
