package logic

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/AsipreVerse/decisivis-engine/internal/features"
	"github.com/AsipreVerse/decisivis-engine/internal/models"
	"github.com/AsipreVerse/decisivis-engine/internal/rating"
	"github.com/AsipreVerse/decisivis-engine/internal/training"
)

const (
	recentWindow = 10
	roleWindow   = 5
	h2hFetch     = 5
)

// ErrInvalidDate marks a prediction request whose date is not YYYY-MM-DD.
var ErrInvalidDate = errors.New("invalid date")

var predictionsServed = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "decisivis_predictions_served_total",
	Help: "Total predictions served, by predicted outcome",
}, []string{"outcome"})

type predictionService struct {
	matches   MatchHistory
	ratings   RatingStore
	artifacts ArtifactStore
	logger    *zap.SugaredLogger
}

func NewPredictionService(matches MatchHistory, ratings RatingStore, artifacts ArtifactStore, logger *zap.SugaredLogger) PredictionService {
	return &predictionService{matches: matches, ratings: ratings, artifacts: artifacts, logger: logger}
}

// Predict forecasts the fixture by rebuilding the same point-in-time
// features the trainer used, scored with the latest stored artifact.
// Everything is fetched up front; the feature math itself does no I/O.
func (s *predictionService) Predict(ctx context.Context, req *models.PredictionRequest) (*models.MatchPrediction, error) {
	date := time.Now().UTC().Truncate(24 * time.Hour)
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %v", ErrInvalidDate, req.Date, err)
		}
		date = parsed
	}
	// Every window looks strictly before the fixture date, so a result
	// recorded on the fixture day itself never feeds its own prediction.
	cutoff := date

	artifact, err := s.artifacts.Latest(ctx)
	if err != nil {
		return nil, err
	}
	if err := features.CheckContract(artifact.FeatureNames); err != nil {
		return nil, fmt.Errorf("stored model is incompatible with this binary: %w", err)
	}

	classifier, err := training.ClassifierFromParams(artifact.Classifier)
	if err != nil {
		return nil, fmt.Errorf("stored model is unusable: %w", err)
	}
	scaler := training.ScalerFromParams(artifact.Scaler)

	var (
		homeRecent, awayRecent []models.Match
		homeRole, awayRole     []models.Match
		h2h                    []models.Match
		teamRatings            []models.TeamRating
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		homeRecent, err = s.matches.TeamRecent(gctx, req.HomeTeam, cutoff, recentWindow)
		return err
	})
	g.Go(func() (err error) {
		awayRecent, err = s.matches.TeamRecent(gctx, req.AwayTeam, cutoff, recentWindow)
		return err
	})
	g.Go(func() (err error) {
		homeRole, err = s.matches.TeamRecentInRole(gctx, req.HomeTeam, true, cutoff, roleWindow)
		return err
	})
	g.Go(func() (err error) {
		awayRole, err = s.matches.TeamRecentInRole(gctx, req.AwayTeam, false, cutoff, roleWindow)
		return err
	})
	g.Go(func() (err error) {
		h2h, err = s.matches.HeadToHead(gctx, req.HomeTeam, req.AwayTeam, cutoff, h2hFetch)
		return err
	})
	g.Go(func() (err error) {
		teamRatings, err = s.ratings.Ratings(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load prediction context: %w", err)
	}

	history := mergeHistories(homeRecent, awayRecent, homeRole, awayRole, h2h)
	extractor := features.NewExtractor(history)
	elo := rating.NewEngineFromSnapshot(teamRatings)

	vec, prims, err := features.ForFixture(extractor, elo, req.HomeTeam, req.AwayTeam, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to assemble features: %w", err)
	}

	probs := classifier.Probabilities(scaler.Transform(vec))
	predicted := models.OutcomeFromLabel(argmax(probs))

	homeRest, _ := extractor.RestDays(req.HomeTeam, cutoff)
	awayRest, _ := extractor.RestDays(req.AwayTeam, cutoff)

	pred := &models.MatchPrediction{
		HomeTeam:    req.HomeTeam,
		AwayTeam:    req.AwayTeam,
		Date:        date,
		Predicted:   predicted,
		AwayWinProb: probs[models.OutcomeAway.Label()],
		DrawProb:    probs[models.OutcomeDraw.Label()],
		HomeWinProb: probs[models.OutcomeHome.Label()],
		Confidence:  probs[argmax(probs)],
		Analysis: models.PredictionAnalysis{
			HomeElo:      prims.HomeElo,
			AwayElo:      prims.AwayElo,
			EloWinProb:   rating.ExpectedScore(prims.HomeElo, prims.AwayElo),
			HomeForm:     prims.HomeForm,
			AwayForm:     prims.AwayForm,
			HeadToHead:   prims.HeadToHead,
			HomeShotsAvg: prims.HomeShotsAvg,
			AwayShotsAvg: prims.AwayShotsAvg,
			HomeMomentum: extractor.Momentum(req.HomeTeam, cutoff),
			AwayMomentum: extractor.Momentum(req.AwayTeam, cutoff),
			HomeRestDays: homeRest,
			AwayRestDays: awayRest,
			HomeFatigued: extractor.Fatigued(req.HomeTeam, cutoff),
			AwayFatigued: extractor.Fatigued(req.AwayTeam, cutoff),
		},
		ModelID:   artifact.ID,
		TrainedAt: artifact.TrainedAt,
	}

	predictionsServed.WithLabelValues(string(predicted)).Inc()
	s.logger.Infow("Prediction served",
		"home_team", req.HomeTeam,
		"away_team", req.AwayTeam,
		"predicted", predicted,
		"confidence", pred.Confidence,
		"model_id", artifact.ID,
	)
	return pred, nil
}

// mergeHistories combines the fetched windows into one deduplicated slice
// sorted by date ascending, the order the extractor expects.
func mergeHistories(sets ...[]models.Match) []models.Match {
	seen := make(map[int64]bool)
	var merged []models.Match
	for _, set := range sets {
		for _, m := range set {
			if seen[m.ID] {
				continue
			}
			seen[m.ID] = true
			merged = append(merged, m)
		}
	}
	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].Date.Equal(merged[j].Date) {
			return merged[i].ID < merged[j].ID
		}
		return merged[i].Date.Before(merged[j].Date)
	})
	return merged
}

func argmax(probs [training.NumClasses]float64) int {
	best := 0
	for i := 1; i < len(probs); i++ {
		if probs[i] > probs[best] {
			best = i
		}
	}
	return best
}
