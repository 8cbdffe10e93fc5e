// Package rating implements the custom Elo system used for the team
// strength features: a per-team rating updated after every observed
// result, with a fixed home-advantage offset and a K-factor that drops
// once a team has enough games behind it.
package rating

import (
	"math"

	"github.com/AsipreVerse/decisivis-engine/internal/models"
)

const (
	// InitialRating is the neutral baseline assigned to unseen teams.
	InitialRating = 1500.0

	// HomeAdvantage is added to the home side's rating before computing
	// the expected score. It models systemic home-field advantage
	// independent of team strength.
	HomeAdvantage = 100.0

	// EstablishedGames is the games-played threshold between the volatile
	// and stable K-factor phases.
	EstablishedGames = 30

	kNew         = 32.0
	kEstablished = 16.0
)

// TeamState is the mutable (rating, games played) pair held per team.
type TeamState struct {
	Rating      float64
	GamesPlayed int
}

// Engine holds the per-team rating map for one training or
// feature-extraction pass. It is owned by exactly one pass at a time; no
// concurrent writers are permitted against the same instance.
type Engine struct {
	teams map[string]TeamState
}

// NewEngine returns an empty engine. Teams are created lazily on first
// lookup.
func NewEngine() *Engine {
	return &Engine{teams: make(map[string]TeamState)}
}

// NewEngineFromSnapshot seeds an engine from persisted elo_ratings rows,
// for prediction-time use where the training pass's final state is the
// current truth.
func NewEngineFromSnapshot(ratings []models.TeamRating) *Engine {
	e := NewEngine()
	for _, r := range ratings {
		e.teams[r.Team] = TeamState{Rating: r.Rating, GamesPlayed: r.GamesPlayed}
	}
	return e
}

// InitializeTeam seeds a team's state. It is idempotent: if the team
// already has state the call does nothing (first write wins). When
// externalRating is non-nil the team is seeded with that value and treated
// as established, so the conservative K-factor applies immediately.
func (e *Engine) InitializeTeam(team string, externalRating *float64) {
	if _, ok := e.teams[team]; ok {
		return
	}
	if externalRating != nil && !math.IsNaN(*externalRating) {
		e.teams[team] = TeamState{Rating: *externalRating, GamesPlayed: EstablishedGames}
		return
	}
	e.teams[team] = TeamState{Rating: InitialRating}
}

// Rating returns the team's current rating, lazily initializing unseen
// teams to the neutral baseline. Unknown teams are never an error.
func (e *Engine) Rating(team string) float64 {
	if _, ok := e.teams[team]; !ok {
		e.InitializeTeam(team, nil)
	}
	return e.teams[team].Rating
}

// GamesPlayed returns how many updates the team has received.
func (e *Engine) GamesPlayed(team string) int {
	return e.teams[team].GamesPlayed
}

// ExpectedScore is the logistic expectation of the home side winning,
// with the home-advantage offset applied to the home rating only.
func ExpectedScore(homeRating, awayRating float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, (awayRating-(homeRating+HomeAdvantage))/400.0))
}

// WinProbability is the expected score for the current ratings of the two
// named teams.
func (e *Engine) WinProbability(homeTeam, awayTeam string) float64 {
	return ExpectedScore(e.Rating(homeTeam), e.Rating(awayTeam))
}

func kFactor(gamesPlayed int) float64 {
	if gamesPlayed < EstablishedGames {
		return kNew
	}
	return kEstablished
}

// UpdateRatings applies the Elo update for one finished match. It must be
// called exactly once per match, in chronological order, and only after
// the match's features have been extracted from the pre-update ratings.
// Each side's K-factor is evaluated independently from its own games
// played; both games-played counters advance by one. A result that is not
// H, D or A leaves both sides untouched.
func (e *Engine) UpdateRatings(homeTeam, awayTeam string, result models.Outcome) (float64, float64) {
	e.InitializeTeam(homeTeam, nil)
	e.InitializeTeam(awayTeam, nil)

	home := e.teams[homeTeam]
	away := e.teams[awayTeam]

	expected := ExpectedScore(home.Rating, away.Rating)

	var actualHome float64
	switch result {
	case models.OutcomeHome:
		actualHome = 1.0
	case models.OutcomeDraw:
		actualHome = 0.5
	case models.OutcomeAway:
		actualHome = 0.0
	default:
		// Not a finished H/D/A result: no rating change, no games-played
		// advance.
		return home.Rating, away.Rating
	}
	actualAway := 1.0 - actualHome

	newHome := home.Rating + kFactor(home.GamesPlayed)*(actualHome-expected)
	newAway := away.Rating + kFactor(away.GamesPlayed)*(actualAway-(1.0-expected))

	e.teams[homeTeam] = TeamState{Rating: newHome, GamesPlayed: home.GamesPlayed + 1}
	e.teams[awayTeam] = TeamState{Rating: newAway, GamesPlayed: away.GamesPlayed + 1}

	return newHome, newAway
}

// Snapshot returns the full rating table for persistence after a training
// pass. Map iteration order is unspecified; callers that need a stable
// order sort the result.
func (e *Engine) Snapshot() map[string]TeamState {
	out := make(map[string]TeamState, len(e.teams))
	for team, state := range e.teams {
		out[team] = state
	}
	return out
}
