package models

import "time"

// ScalerParams are the fitted standardization parameters, positional with
// the artifact's FeatureNames.
type ScalerParams struct {
	Mean   []float64 `json:"mean"`
	Stddev []float64 `json:"stddev"`
}

// ClassifierParams are the fitted multinomial logistic regression weights.
// Weights[c] holds the coefficient vector for class c (Away=0, Draw=1,
// Home=2); Intercepts[c] is that class's bias term.
type ClassifierParams struct {
	Weights    [][]float64 `json:"weights"`
	Intercepts []float64   `json:"intercepts"`
	C          float64     `json:"c"` // inverse regularization strength the grid selected
}

// EvalMetrics are the held-out evaluation results recorded with an artifact.
// Precision/recall/F1 are weighted across the three classes; Confusion is
// the 3x3 matrix indexed [actual][predicted] in label order A, D, H.
type EvalMetrics struct {
	TrainAccuracy float64   `json:"train_accuracy"`
	TestAccuracy  float64   `json:"test_accuracy"`
	Precision     float64   `json:"precision"`
	Recall        float64   `json:"recall"`
	F1            float64   `json:"f1"`
	Confusion     [3][3]int `json:"confusion_matrix"`
}

// Artifact is the serialized training output: everything the serving layer
// needs to reproduce predictions. Immutable once produced; a retrain writes
// a new artifact rather than mutating this one. FeatureNames is the
// ordering contract between training and prediction: the assembler's
// output order must match it exactly or coefficients are applied to the
// wrong columns.
type Artifact struct {
	ID           string           `json:"id"`
	FeatureNames []string         `json:"feature_names"`
	Classifier   ClassifierParams `json:"classifier"`
	Scaler       ScalerParams     `json:"scaler"`
	Metrics      EvalMetrics      `json:"metrics"`

	TrainSamples   int `json:"train_samples"`
	TestSamples    int `json:"test_samples"`
	SkippedSamples int `json:"skipped_samples"`

	TrainedAt time.Time `json:"trained_at"`
}
