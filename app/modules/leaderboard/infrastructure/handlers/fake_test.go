package leaderboardhandlers

import (
	"context"

	leaderboardservice "github.com/mint-edu/mint-backend/app/modules/leaderboard/application"
)

type FakeService struct {
	GetLeaderboardFunc func(ctx context.Context, code string, limit int) (*leaderboardservice.Board, error)
	ExportXLSXFunc     func(ctx context.Context, code string) ([]byte, error)
	RenderChartFunc    func(ctx context.Context, code string, limit int) ([]byte, error)

	trace []string
}

func (f *FakeService) record(step string) { f.trace = append(f.trace, step) }

func (f *FakeService) Trace() []string { return f.trace }

func (f *FakeService) GetLeaderboard(ctx context.Context, code string, limit int) (*leaderboardservice.Board, error) {
	f.record("GetLeaderboard")
	if f.GetLeaderboardFunc != nil {
		return f.GetLeaderboardFunc(ctx, code, limit)
	}
	return &leaderboardservice.Board{}, nil
}

func (f *FakeService) ExportXLSX(ctx context.Context, code string) ([]byte, error) {
	f.record("ExportXLSX")
	if f.ExportXLSXFunc != nil {
		return f.ExportXLSXFunc(ctx, code)
	}
	return nil, nil
}

func (f *FakeService) RenderChart(ctx context.Context, code string, limit int) ([]byte, error) {
	f.record("RenderChart")
	if f.RenderChartFunc != nil {
		return f.RenderChartFunc(ctx, code, limit)
	}
	return nil, nil
}

var _ leaderboardservice.Service = (*FakeService)(nil)
