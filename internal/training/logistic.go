package training

import (
	"fmt"
	"math"

	"github.com/AsipreVerse/decisivis-engine/internal/models"
)

// NumClasses is the fixed outcome space: Away=0, Draw=1, Home=2.
const NumClasses = 3

// FitConfig tunes the gradient-descent fit. Training is deterministic:
// weights start at zero and the full-batch updates involve no randomness,
// so identical inputs always produce identical coefficients.
type FitConfig struct {
	// C is the inverse regularization strength (sklearn convention):
	// smaller C means a stronger L2 penalty on the weights. Intercepts
	// are not penalized.
	C float64

	Iterations   int
	LearningRate float64

	// BalanceClasses weights each sample by n/(k*count(class)) so the
	// draw class, chronically under-represented, is not drowned out.
	BalanceClasses bool
}

// DefaultFitConfig mirrors the moderate-regularization configuration the
// model selection grid centres on.
func DefaultFitConfig() FitConfig {
	return FitConfig{
		C:              0.5,
		Iterations:     500,
		LearningRate:   0.1,
		BalanceClasses: true,
	}
}

// Classifier is a fitted multinomial (softmax) logistic regression.
// Weights[c][j] is class c's coefficient for feature j.
type Classifier struct {
	Weights    [][]float64
	Intercepts []float64
	C          float64
}

// ClassifierFromParams rebuilds a fitted classifier from an artifact.
func ClassifierFromParams(p models.ClassifierParams) (*Classifier, error) {
	if len(p.Weights) != NumClasses || len(p.Intercepts) != NumClasses {
		return nil, fmt.Errorf("classifier params have %d/%d classes, want %d",
			len(p.Weights), len(p.Intercepts), NumClasses)
	}
	return &Classifier{Weights: p.Weights, Intercepts: p.Intercepts, C: p.C}, nil
}

// Params exports the fitted coefficients for artifact serialization.
func (c *Classifier) Params() models.ClassifierParams {
	return models.ClassifierParams{Weights: c.Weights, Intercepts: c.Intercepts, C: c.C}
}

// Fit trains a softmax regression on standardized features by full-batch
// gradient descent on the L2-penalized cross-entropy.
func Fit(X [][]float64, y []int, cfg FitConfig) (*Classifier, error) {
	if len(X) == 0 || len(X) != len(y) {
		return nil, fmt.Errorf("bad training shape: %d rows, %d labels", len(X), len(y))
	}
	dim := len(X[0])
	n := float64(len(X))

	sampleWeight := make([]float64, len(y))
	for i := range sampleWeight {
		sampleWeight[i] = 1.0
	}
	if cfg.BalanceClasses {
		var counts [NumClasses]float64
		for _, label := range y {
			counts[label]++
		}
		for i, label := range y {
			if counts[label] > 0 {
				sampleWeight[i] = n / (NumClasses * counts[label])
			}
		}
	}

	weights := make([][]float64, NumClasses)
	for c := range weights {
		weights[c] = make([]float64, dim)
	}
	intercepts := make([]float64, NumClasses)

	// lambda scales the L2 gradient so the penalty matches the
	// C*sum(loss) + ||w||^2/2 objective.
	lambda := 0.0
	if cfg.C > 0 {
		lambda = 1.0 / (cfg.C * n)
	}

	gradW := make([][]float64, NumClasses)
	for c := range gradW {
		gradW[c] = make([]float64, dim)
	}
	gradB := make([]float64, NumClasses)

	for iter := 0; iter < cfg.Iterations; iter++ {
		for c := 0; c < NumClasses; c++ {
			for j := 0; j < dim; j++ {
				gradW[c][j] = lambda * weights[c][j]
			}
			gradB[c] = 0
		}

		for i, row := range X {
			probs := softmax(weights, intercepts, row)
			for c := 0; c < NumClasses; c++ {
				indicator := 0.0
				if y[i] == c {
					indicator = 1.0
				}
				g := sampleWeight[i] * (probs[c] - indicator) / n
				for j, v := range row {
					gradW[c][j] += g * v
				}
				gradB[c] += g
			}
		}

		for c := 0; c < NumClasses; c++ {
			for j := 0; j < dim; j++ {
				weights[c][j] -= cfg.LearningRate * gradW[c][j]
			}
			intercepts[c] -= cfg.LearningRate * gradB[c]
		}
	}

	return &Classifier{Weights: weights, Intercepts: intercepts, C: cfg.C}, nil
}

func softmax(weights [][]float64, intercepts []float64, x []float64) [NumClasses]float64 {
	var logits [NumClasses]float64
	maxLogit := math.Inf(-1)
	for c := 0; c < NumClasses; c++ {
		z := intercepts[c]
		for j, v := range x {
			z += weights[c][j] * v
		}
		logits[c] = z
		if z > maxLogit {
			maxLogit = z
		}
	}
	var sum float64
	var out [NumClasses]float64
	for c := 0; c < NumClasses; c++ {
		out[c] = math.Exp(logits[c] - maxLogit)
		sum += out[c]
	}
	for c := 0; c < NumClasses; c++ {
		out[c] /= sum
	}
	return out
}

// Probabilities returns the class probability triple for a standardized
// vector; the three values sum to 1.0.
func (c *Classifier) Probabilities(x []float64) [NumClasses]float64 {
	return softmax(c.Weights, c.Intercepts, x)
}

// Predict returns the most probable class label.
func (c *Classifier) Predict(x []float64) int {
	probs := c.Probabilities(x)
	best := 0
	for cls := 1; cls < NumClasses; cls++ {
		if probs[cls] > probs[best] {
			best = cls
		}
	}
	return best
}

// PredictAll maps Predict over a standardized matrix.
func (c *Classifier) PredictAll(X [][]float64) []int {
	out := make([]int, len(X))
	for i, row := range X {
		out[i] = c.Predict(row)
	}
	return out
}
