// Package training implements the model-selection pipeline: temporal
// train/test split, feature standardization, the multinomial logistic
// regression fit, and held-out evaluation.
package training

import (
	"fmt"
	"math"

	"github.com/AsipreVerse/decisivis-engine/internal/models"
)

// Scaler standardizes features to zero mean and unit variance. It is
// fitted on the training split only and applied unchanged to the test
// split and to prediction-time vectors; its stored parameters never move
// after FitScaler returns.
type Scaler struct {
	Mean   []float64
	Stddev []float64
}

// FitScaler computes per-column mean and population standard deviation
// over X. Constant columns get stddev 1.0 so transforming them yields 0
// rather than dividing by zero.
func FitScaler(X [][]float64) (*Scaler, error) {
	if len(X) == 0 {
		return nil, fmt.Errorf("cannot fit scaler on empty matrix")
	}
	dim := len(X[0])
	mean := make([]float64, dim)
	stddev := make([]float64, dim)

	for _, row := range X {
		for j, v := range row {
			mean[j] += v
		}
	}
	n := float64(len(X))
	for j := range mean {
		mean[j] /= n
	}
	for _, row := range X {
		for j, v := range row {
			d := v - mean[j]
			stddev[j] += d * d
		}
	}
	for j := range stddev {
		stddev[j] = math.Sqrt(stddev[j] / n)
		if stddev[j] == 0 {
			stddev[j] = 1.0
		}
	}
	return &Scaler{Mean: mean, Stddev: stddev}, nil
}

// ScalerFromParams rebuilds a fitted scaler from artifact parameters.
func ScalerFromParams(p models.ScalerParams) *Scaler {
	return &Scaler{Mean: p.Mean, Stddev: p.Stddev}
}

// Params exports the fitted parameters for artifact serialization.
func (s *Scaler) Params() models.ScalerParams {
	return models.ScalerParams{Mean: s.Mean, Stddev: s.Stddev}
}

// Transform returns a new standardized copy of x.
func (s *Scaler) Transform(x []float64) []float64 {
	out := make([]float64, len(x))
	for j, v := range x {
		out[j] = (v - s.Mean[j]) / s.Stddev[j]
	}
	return out
}

// TransformAll standardizes every row, leaving the input untouched.
func (s *Scaler) TransformAll(X [][]float64) [][]float64 {
	out := make([][]float64, len(X))
	for i, row := range X {
		out[i] = s.Transform(row)
	}
	return out
}
