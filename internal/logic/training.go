package logic

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/AsipreVerse/decisivis-engine/internal/models"
	"github.com/AsipreVerse/decisivis-engine/internal/training"
)

type trainingService struct {
	matches   MatchHistory
	ratings   RatingStore
	artifacts ArtifactStore
	cfg       training.Config
	logger    *zap.SugaredLogger
}

func NewTrainingService(matches MatchHistory, ratings RatingStore, artifacts ArtifactStore, cfg training.Config, logger *zap.SugaredLogger) TrainingService {
	return &trainingService{matches: matches, ratings: ratings, artifacts: artifacts, cfg: cfg, logger: logger}
}

// Train loads the full chronological history, runs the pipeline, and
// persists both the artifact and the final Elo table. The new artifact
// only becomes the serving model once the save succeeds.
func (s *trainingService) Train(ctx context.Context) (*models.Artifact, error) {
	matches, err := s.matches.AllOrdered(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load match history: %w", err)
	}

	pipeline := training.NewPipeline(s.cfg, s.logger)
	result, err := pipeline.Run(ctx, matches)
	if err != nil {
		return nil, err
	}

	if err := s.ratings.SaveSnapshot(ctx, result.Ratings); err != nil {
		return nil, err
	}
	if err := s.artifacts.Save(ctx, result.Artifact); err != nil {
		return nil, err
	}

	s.logger.Infow("Training run persisted",
		"artifact_id", result.Artifact.ID,
		"train_samples", result.Artifact.TrainSamples,
		"test_samples", result.Artifact.TestSamples,
		"skipped", result.Artifact.SkippedSamples,
		"test_accuracy", result.Artifact.Metrics.TestAccuracy,
		"teams", len(result.Ratings),
	)
	return result.Artifact, nil
}
