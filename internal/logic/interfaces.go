package logic

import (
	"context"
	"time"

	"github.com/AsipreVerse/decisivis-engine/internal/models"
	"github.com/AsipreVerse/decisivis-engine/internal/rating"
)

// MatchHistory defines the read interface over the matches table.
type MatchHistory interface {
	AllOrdered(ctx context.Context) ([]models.Match, error)
	TeamRecent(ctx context.Context, team string, before time.Time, limit int) ([]models.Match, error)
	TeamRecentInRole(ctx context.Context, team string, asHome bool, before time.Time, limit int) ([]models.Match, error)
	HeadToHead(ctx context.Context, homeTeam, awayTeam string, before time.Time, limit int) ([]models.Match, error)
	Recent(ctx context.Context, limit int) ([]models.Match, error)
	Summary(ctx context.Context) (total, teams int, earliest, latest *time.Time, err error)
}

// RatingStore defines persistence for the Elo table.
type RatingStore interface {
	SaveSnapshot(ctx context.Context, snapshot map[string]rating.TeamState) error
	Ratings(ctx context.Context) ([]models.TeamRating, error)
}

// ArtifactStore defines persistence for trained model artifacts.
type ArtifactStore interface {
	Save(ctx context.Context, artifact *models.Artifact) error
	Latest(ctx context.Context) (*models.Artifact, error)
}

// PredictionService forecasts a single upcoming fixture.
type PredictionService interface {
	Predict(ctx context.Context, req *models.PredictionRequest) (*models.MatchPrediction, error)
}

// TrainingService runs a full training pass against the stored history.
type TrainingService interface {
	Train(ctx context.Context) (*models.Artifact, error)
}

// StatsService reports model and dataset metadata.
type StatsService interface {
	Stats(ctx context.Context) (*models.ModelStats, error)
	RecentMatches(ctx context.Context, limit int) ([]models.Match, error)
	Ratings(ctx context.Context) ([]models.TeamRating, error)
}
