package training

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AsipreVerse/decisivis-engine/internal/features"
	"github.com/AsipreVerse/decisivis-engine/internal/models"
	"github.com/AsipreVerse/decisivis-engine/internal/rating"
)

// ErrInsufficientData aborts a training run that would otherwise fit on
// too few samples. It is fatal for the invocation: no artifact is emitted.
var ErrInsufficientData = errors.New("not enough match data to train")

// Config tunes one training run.
type Config struct {
	// MinMatches is the hard floor on total input matches.
	MinMatches int
	// MinSamples is the hard floor on usable feature vectors after
	// warmup discards and per-sample skips.
	MinSamples int
	// WarmupMatches are discarded from the front of the history; the
	// feature windows have nothing to look at there.
	WarmupMatches int
	// TestFraction is the tail share held out for evaluation.
	TestFraction float64
	// CGrid is the sweep of inverse regularization strengths.
	CGrid []float64
	// MaxOverfitGap is the train-test accuracy gap above which a
	// configuration counts as overfit during selection.
	MaxOverfitGap float64

	Iterations   int
	LearningRate float64
}

// DefaultConfig returns the production configuration.
func DefaultConfig() Config {
	return Config{
		MinMatches:    1000,
		MinSamples:    200,
		WarmupMatches: 10,
		TestFraction:  0.2,
		CGrid:         []float64{0.1, 0.5, 1.0},
		MaxOverfitGap: 0.05,
		Iterations:    500,
		LearningRate:  0.1,
	}
}

// Result is everything a training run produces: the artifact to persist
// and serve from, the final Elo table, and the skip tally.
type Result struct {
	Artifact *models.Artifact
	Ratings  map[string]rating.TeamState
	Skipped  int
}

// Pipeline runs the full train-evaluate-select pass. One Run owns its Elo
// engine exclusively and processes matches strictly in date order; it is
// not safe to share a Pipeline's Run across goroutines, but separate Runs
// are independent.
type Pipeline struct {
	cfg    Config
	logger *zap.SugaredLogger
}

func NewPipeline(cfg Config, logger *zap.SugaredLogger) *Pipeline {
	if cfg.TestFraction <= 0 || cfg.TestFraction >= 1 {
		cfg.TestFraction = 0.2
	}
	if len(cfg.CGrid) == 0 {
		cfg.CGrid = []float64{0.5}
	}
	return &Pipeline{cfg: cfg, logger: logger}
}

// Run trains on the given history. matches must be sorted by date
// ascending; the pipeline re-sorts stably as a guard, since an unordered
// history would silently corrupt both the Elo path and the temporal split.
func (p *Pipeline) Run(ctx context.Context, matches []models.Match) (*Result, error) {
	if len(matches) < p.cfg.MinMatches {
		return nil, fmt.Errorf("%w: have %d matches, need %d",
			ErrInsufficientData, len(matches), p.cfg.MinMatches)
	}

	ordered := make([]models.Match, len(matches))
	copy(ordered, matches)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})

	elo := rating.NewEngine()

	var (
		X       [][]float64
		y       []int
		dates   []time.Time
		skipped int
	)

	for i := range ordered {
		if i%512 == 0 && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		m := &ordered[i]

		// Seed from external Elo on first sight; later sightings are
		// no-ops (first write wins).
		elo.InitializeTeam(m.HomeTeam, m.HomeEloExternal)
		elo.InitializeTeam(m.AwayTeam, m.AwayEloExternal)

		if i >= p.cfg.WarmupMatches {
			if m.HomeShotsOnTarget == nil || m.AwayShotsOnTarget == nil || m.Result == "" {
				skipped++
			} else {
				extractor := features.NewExtractor(ordered[:i])
				vec, _, err := features.ForFixture(extractor, elo, m.HomeTeam, m.AwayTeam, m.Date)
				if err != nil {
					skipped++
					p.logger.Warnw("Skipping sample with invalid features",
						"home", m.HomeTeam, "away", m.AwayTeam, "date", m.Date, "error", err)
				} else {
					X = append(X, vec)
					y = append(y, m.Result.Label())
					dates = append(dates, m.Date)
				}
			}
		}

		// Rating update happens strictly after this match's features
		// were extracted from the pre-update state.
		elo.UpdateRatings(m.HomeTeam, m.AwayTeam, m.Result)
	}

	if len(X) < p.cfg.MinSamples {
		return nil, fmt.Errorf("%w: %d usable samples after %d skips, need %d",
			ErrInsufficientData, len(X), skipped, p.cfg.MinSamples)
	}

	split := int(float64(len(X)) * (1.0 - p.cfg.TestFraction))
	if split <= 0 || split >= len(X) {
		return nil, fmt.Errorf("%w: split would leave an empty partition (%d samples)",
			ErrInsufficientData, len(X))
	}
	trainX, testX := X[:split], X[split:]
	trainY, testY := y[:split], y[split:]

	p.logger.Infow("Temporal split",
		"total", len(X), "train", len(trainX), "test", len(testX),
		"skipped", skipped,
		"trainEnd", dates[split-1], "testStart", dates[split])

	scaler, err := FitScaler(trainX)
	if err != nil {
		return nil, err
	}
	trainScaled := scaler.TransformAll(trainX)
	testScaled := scaler.TransformAll(testX)

	best, trainAcc, testAcc, err := p.selectModel(ctx, trainScaled, trainY, testScaled, testY)
	if err != nil {
		return nil, err
	}

	testPred := best.PredictAll(testScaled)
	precision, recall, f1 := WeightedPRF(testY, testPred)

	artifact := &models.Artifact{
		ID:           uuid.NewString(),
		FeatureNames: append([]string{}, features.Names...),
		Classifier:   best.Params(),
		Scaler:       scaler.Params(),
		Metrics: models.EvalMetrics{
			TrainAccuracy: trainAcc,
			TestAccuracy:  testAcc,
			Precision:     precision,
			Recall:        recall,
			F1:            f1,
			Confusion:     ConfusionMatrix(testY, testPred),
		},
		TrainSamples:   len(trainX),
		TestSamples:    len(testX),
		SkippedSamples: skipped,
		TrainedAt:      time.Now().UTC(),
	}

	p.logger.Infow("Training complete",
		"artifact", artifact.ID,
		"trainAccuracy", trainAcc, "testAccuracy", testAcc,
		"gap", trainAcc-testAcc, "c", best.C, "f1", f1)

	return &Result{Artifact: artifact, Ratings: elo.Snapshot(), Skipped: skipped}, nil
}

// selectModel sweeps the regularization grid and picks the configuration
// with the best held-out accuracy among those whose train-test gap stays
// under the overfitting threshold. If every configuration overfits, the
// nominally best one is kept with a warning; overfitting is reported, not
// fatal.
func (p *Pipeline) selectModel(ctx context.Context, trainX [][]float64, trainY []int, testX [][]float64, testY []int) (*Classifier, float64, float64, error) {
	type candidate struct {
		clf      *Classifier
		trainAcc float64
		testAcc  float64
	}
	var sound, overfit []candidate

	for _, c := range p.cfg.CGrid {
		if ctx.Err() != nil {
			return nil, 0, 0, ctx.Err()
		}
		cfg := FitConfig{
			C:              c,
			Iterations:     p.cfg.Iterations,
			LearningRate:   p.cfg.LearningRate,
			BalanceClasses: true,
		}
		clf, err := Fit(trainX, trainY, cfg)
		if err != nil {
			return nil, 0, 0, err
		}
		cand := candidate{
			clf:      clf,
			trainAcc: Accuracy(trainY, clf.PredictAll(trainX)),
			testAcc:  Accuracy(testY, clf.PredictAll(testX)),
		}
		gap := cand.trainAcc - cand.testAcc
		p.logger.Infow("Grid candidate",
			"c", c, "trainAccuracy", cand.trainAcc, "testAccuracy", cand.testAcc, "gap", gap)
		if gap < p.cfg.MaxOverfitGap {
			sound = append(sound, cand)
		} else {
			overfit = append(overfit, cand)
		}
	}

	pool := sound
	if len(pool) == 0 {
		p.logger.Warnw("Every grid configuration overfits; keeping best test accuracy anyway",
			"gapThreshold", p.cfg.MaxOverfitGap)
		pool = overfit
	}

	best := pool[0]
	for _, cand := range pool[1:] {
		if cand.testAcc > best.testAcc {
			best = cand
		}
	}
	return best.clf, best.trainAcc, best.testAcc, nil
}
