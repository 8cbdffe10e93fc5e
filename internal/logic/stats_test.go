package logic

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/AsipreVerse/decisivis-engine/internal/models"
	"github.com/AsipreVerse/decisivis-engine/internal/store"
)

func TestStatsWithModel(t *testing.T) {
	earliest := time.Date(2020, 8, 1, 0, 0, 0, 0, time.UTC)
	latest := time.Date(2024, 5, 19, 0, 0, 0, 0, time.UTC)
	matches := &MockMatchHistory{
		SummaryFunc: func(ctx context.Context) (int, int, *time.Time, *time.Time, error) {
			return 4560, 42, &earliest, &latest, nil
		},
	}
	artifact := testArtifact()
	artifact.Metrics.TestAccuracy = 0.53
	artifact.TrainSamples = 3600
	artifacts := &MockArtifactStore{
		LatestFunc: func(ctx context.Context) (*models.Artifact, error) {
			return artifact, nil
		},
	}

	svc := NewStatsService(matches, &MockRatingStore{}, artifacts, zap.NewNop().Sugar())
	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !stats.ModelLoaded {
		t.Error("Expected model_loaded true")
	}
	if stats.ModelID != "artifact-test" || stats.TestAccuracy != 0.53 {
		t.Errorf("Unexpected model metadata: %+v", stats)
	}
	if stats.TotalMatches != 4560 || stats.TotalTeams != 42 {
		t.Errorf("Unexpected dataset summary: %+v", stats)
	}
	if stats.EarliestMatch == nil || !stats.EarliestMatch.Equal(earliest) {
		t.Errorf("Expected earliest match %v, got %v", earliest, stats.EarliestMatch)
	}
}

func TestStatsWithoutModel(t *testing.T) {
	matches := &MockMatchHistory{
		SummaryFunc: func(ctx context.Context) (int, int, *time.Time, *time.Time, error) {
			return 120, 8, nil, nil, nil
		},
	}
	artifacts := &MockArtifactStore{
		LatestFunc: func(ctx context.Context) (*models.Artifact, error) {
			return nil, store.ErrNoArtifact
		},
	}

	svc := NewStatsService(matches, &MockRatingStore{}, artifacts, zap.NewNop().Sugar())
	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Expected no error when no model exists, got %v", err)
	}
	if stats.ModelLoaded {
		t.Error("Expected model_loaded false")
	}
	if stats.TotalMatches != 120 {
		t.Errorf("Expected dataset summary regardless of model, got %+v", stats)
	}
}

func TestRecentMatchesLimitClamp(t *testing.T) {
	var gotLimit int
	matches := &MockMatchHistory{
		RecentFunc: func(ctx context.Context, limit int) ([]models.Match, error) {
			gotLimit = limit
			return nil, nil
		},
	}
	svc := NewStatsService(matches, &MockRatingStore{}, &MockArtifactStore{}, zap.NewNop().Sugar())

	for _, bad := range []int{0, -5, 500} {
		if _, err := svc.RecentMatches(context.Background(), bad); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if gotLimit != 20 {
			t.Errorf("Expected limit %d clamped to 20, got %d", bad, gotLimit)
		}
	}

	if _, err := svc.RecentMatches(context.Background(), 50); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if gotLimit != 50 {
		t.Errorf("Expected in-range limit preserved, got %d", gotLimit)
	}
}
