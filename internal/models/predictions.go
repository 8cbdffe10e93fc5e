package models

import "time"

// PredictionRequest asks for a forecast of a single fixture.
type PredictionRequest struct {
	HomeTeam string `json:"home_team" validate:"required"`
	AwayTeam string `json:"away_team" validate:"required,nefield=HomeTeam"`
	Date     string `json:"date" validate:"omitempty,datetime=2006-01-02"` // defaults to today
}

// MatchPrediction is the serving-layer response: a label plus the class
// probability triple (sums to 1.0) and the analysis factors behind it.
type MatchPrediction struct {
	HomeTeam string    `json:"home_team"`
	AwayTeam string    `json:"away_team"`
	Date     time.Time `json:"date"`

	Predicted Outcome `json:"predicted"`

	HomeWinProb float64 `json:"home_win_prob"`
	DrawProb    float64 `json:"draw_prob"`
	AwayWinProb float64 `json:"away_win_prob"`
	Confidence  float64 `json:"confidence"` // max of the three

	Analysis PredictionAnalysis `json:"analysis"`

	ModelID   string    `json:"model_id"`
	TrainedAt time.Time `json:"model_trained_at"`
}

// PredictionAnalysis exposes the primitive signals that fed the vector,
// plus the extended momentum/fatigue context that is reported but not
// part of the trained feature set.
type PredictionAnalysis struct {
	HomeElo      float64 `json:"home_elo"`
	AwayElo      float64 `json:"away_elo"`
	EloWinProb   float64 `json:"elo_win_prob"`
	HomeForm     float64 `json:"home_form"`
	AwayForm     float64 `json:"away_form"`
	HeadToHead   float64 `json:"h2h_home_factor"`
	HomeShotsAvg float64 `json:"home_shots_on_target_avg"`
	AwayShotsAvg float64 `json:"away_shots_on_target_avg"`

	HomeMomentum float64 `json:"home_momentum"`
	AwayMomentum float64 `json:"away_momentum"`
	HomeRestDays int     `json:"home_rest_days"`
	AwayRestDays int     `json:"away_rest_days"`
	HomeFatigued bool    `json:"home_fatigued"`
	AwayFatigued bool    `json:"away_fatigued"`
}

// TrainRequest triggers a training run.
type TrainRequest struct {
	MinMatches int `json:"min_matches" validate:"omitempty,min=100"`
}

// TrainStatus is the Redis-backed progress state of the training worker.
type TrainStatus struct {
	Status    string    `json:"status"` // idle, queued, running, complete, failed
	Stage     string    `json:"stage,omitempty"`
	Samples   int       `json:"samples,omitempty"`
	Skipped   int       `json:"skipped,omitempty"`
	Accuracy  float64   `json:"accuracy,omitempty"`
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ModelStats is the /stats payload: current model metadata plus a dataset
// summary.
type ModelStats struct {
	ModelLoaded   bool       `json:"model_loaded"`
	ModelID       string     `json:"model_id,omitempty"`
	TestAccuracy  float64    `json:"test_accuracy,omitempty"`
	TrainAccuracy float64    `json:"train_accuracy,omitempty"`
	FeatureCount  int        `json:"feature_count,omitempty"`
	TrainSamples  int        `json:"train_samples,omitempty"`
	TestSamples   int        `json:"test_samples,omitempty"`
	TrainedAt     *time.Time `json:"trained_at,omitempty"`
	TotalMatches  int        `json:"total_matches"`
	TotalTeams    int        `json:"total_teams"`
	EarliestMatch *time.Time `json:"earliest_match,omitempty"`
	LatestMatch   *time.Time `json:"latest_match,omitempty"`
}
