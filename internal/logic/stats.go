package logic

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/AsipreVerse/decisivis-engine/internal/features"
	"github.com/AsipreVerse/decisivis-engine/internal/models"
	"github.com/AsipreVerse/decisivis-engine/internal/store"
)

type statsService struct {
	matches   MatchHistory
	ratings   RatingStore
	artifacts ArtifactStore
	logger    *zap.SugaredLogger
}

func NewStatsService(matches MatchHistory, ratings RatingStore, artifacts ArtifactStore, logger *zap.SugaredLogger) StatsService {
	return &statsService{matches: matches, ratings: ratings, artifacts: artifacts, logger: logger}
}

// Stats combines the latest artifact's metadata with a dataset summary.
// A missing artifact is not an error here; the payload just reports
// model_loaded=false.
func (s *statsService) Stats(ctx context.Context) (*models.ModelStats, error) {
	total, teams, earliest, latest, err := s.matches.Summary(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize matches: %w", err)
	}

	stats := &models.ModelStats{
		TotalMatches:  total,
		TotalTeams:    teams,
		EarliestMatch: earliest,
		LatestMatch:   latest,
	}

	artifact, err := s.artifacts.Latest(ctx)
	if errors.Is(err, store.ErrNoArtifact) {
		return stats, nil
	}
	if err != nil {
		return nil, err
	}

	trainedAt := artifact.TrainedAt
	stats.ModelLoaded = true
	stats.ModelID = artifact.ID
	stats.TestAccuracy = artifact.Metrics.TestAccuracy
	stats.TrainAccuracy = artifact.Metrics.TrainAccuracy
	stats.FeatureCount = len(artifact.FeatureNames)
	stats.TrainSamples = artifact.TrainSamples
	stats.TestSamples = artifact.TestSamples
	stats.TrainedAt = &trainedAt

	if err := features.CheckContract(artifact.FeatureNames); err != nil {
		s.logger.Warnw("Stored model does not match this binary's feature contract", "artifact_id", artifact.ID, "error", err)
	}
	return stats, nil
}

func (s *statsService) RecentMatches(ctx context.Context, limit int) ([]models.Match, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.matches.Recent(ctx, limit)
}

func (s *statsService) Ratings(ctx context.Context) ([]models.TeamRating, error) {
	return s.ratings.Ratings(ctx)
}
