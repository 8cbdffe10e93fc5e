package handlers

import (
	"context"

	"github.com/AsipreVerse/decisivis-engine/internal/models"
)

type MockPredictionService struct {
	PredictFunc func(ctx context.Context, req *models.PredictionRequest) (*models.MatchPrediction, error)
}

func (m *MockPredictionService) Predict(ctx context.Context, req *models.PredictionRequest) (*models.MatchPrediction, error) {
	if m.PredictFunc != nil {
		return m.PredictFunc(ctx, req)
	}
	return &models.MatchPrediction{}, nil
}

type MockStatsService struct {
	StatsFunc         func(ctx context.Context) (*models.ModelStats, error)
	RecentMatchesFunc func(ctx context.Context, limit int) ([]models.Match, error)
	RatingsFunc       func(ctx context.Context) ([]models.TeamRating, error)
}

func (m *MockStatsService) Stats(ctx context.Context) (*models.ModelStats, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx)
	}
	return &models.ModelStats{}, nil
}
func (m *MockStatsService) RecentMatches(ctx context.Context, limit int) ([]models.Match, error) {
	if m.RecentMatchesFunc != nil {
		return m.RecentMatchesFunc(ctx, limit)
	}
	return nil, nil
}
func (m *MockStatsService) Ratings(ctx context.Context) ([]models.TeamRating, error) {
	if m.RatingsFunc != nil {
		return m.RatingsFunc(ctx)
	}
	return nil, nil
}

type MockTrainQueue struct {
	EnqueueFunc func() bool
	BusyFunc    func() bool
	StatusFunc  func(ctx context.Context) (*models.TrainStatus, error)
}

func (m *MockTrainQueue) Enqueue() bool {
	if m.EnqueueFunc != nil {
		return m.EnqueueFunc()
	}
	return true
}
func (m *MockTrainQueue) Busy() bool {
	if m.BusyFunc != nil {
		return m.BusyFunc()
	}
	return false
}
func (m *MockTrainQueue) Status(ctx context.Context) (*models.TrainStatus, error) {
	if m.StatusFunc != nil {
		return m.StatusFunc(ctx)
	}
	return &models.TrainStatus{Status: "idle"}, nil
}
