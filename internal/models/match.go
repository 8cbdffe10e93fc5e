package models

import "time"

// Outcome is the full-time result of a match, from the home side's perspective.
type Outcome string

const (
	OutcomeHome Outcome = "H"
	OutcomeDraw Outcome = "D"
	OutcomeAway Outcome = "A"
)

// Label returns the fixed numeric class encoding used by the classifier:
// Away=0, Draw=1, Home=2.
func (o Outcome) Label() int {
	switch o {
	case OutcomeHome:
		return 2
	case OutcomeDraw:
		return 1
	default:
		return 0
	}
}

// OutcomeFromLabel is the inverse of Outcome.Label.
func OutcomeFromLabel(label int) Outcome {
	switch label {
	case 2:
		return OutcomeHome
	case 1:
		return OutcomeDraw
	default:
		return OutcomeAway
	}
}

// Match is one played fixture as stored in the matches table. Records are
// immutable once ingested; the ingestion layer has already rejected rows
// violating goals <= shots-on-target <= shots, so consumers trust the data.
// Optional columns surface as pointers so "absent" and "zero" stay distinct.
type Match struct {
	ID       int64     `json:"id"`
	Division string    `json:"division"`
	Date     time.Time `json:"match_date"`
	HomeTeam string    `json:"home_team"`
	AwayTeam string    `json:"away_team"`

	HomeGoals int `json:"home_goals"`
	AwayGoals int `json:"away_goals"`

	Result Outcome `json:"result"`

	HomeShotsOnTarget *int `json:"home_shots_on_target"`
	AwayShotsOnTarget *int `json:"away_shots_on_target"`
	HomeShots         *int `json:"home_shots,omitempty"`
	AwayShots         *int `json:"away_shots,omitempty"`

	// Externally supplied Elo snapshots, when the data source carried them.
	HomeEloExternal *float64 `json:"home_elo_external,omitempty"`
	AwayEloExternal *float64 `json:"away_elo_external,omitempty"`

	// Auxiliary discipline stats used by the pressure index.
	HomeFouls   *int `json:"home_fouls,omitempty"`
	AwayFouls   *int `json:"away_fouls,omitempty"`
	HomeCorners *int `json:"home_corners,omitempty"`
	AwayCorners *int `json:"away_corners,omitempty"`
	HomeYellow  *int `json:"home_yellow,omitempty"`
	AwayYellow  *int `json:"away_yellow,omitempty"`
	HomeRed     *int `json:"home_red,omitempty"`
	AwayRed     *int `json:"away_red,omitempty"`
}

// Involves reports whether team played in this match, in either role.
func (m *Match) Involves(team string) bool {
	return m.HomeTeam == team || m.AwayTeam == team
}

// PointsFor returns the league points team earned from this match
// (Win=3, Draw=1, Loss=0). The caller guarantees Involves(team).
func (m *Match) PointsFor(team string) int {
	switch m.Result {
	case OutcomeDraw:
		return 1
	case OutcomeHome:
		if m.HomeTeam == team {
			return 3
		}
	case OutcomeAway:
		if m.AwayTeam == team {
			return 3
		}
	}
	return 0
}

// TeamRating is one row of the elo_ratings table: the persisted Elo state
// for a team after the most recent training pass.
type TeamRating struct {
	Team        string    `json:"team"`
	Rating      float64   `json:"rating"`
	GamesPlayed int       `json:"games_played"`
	LastUpdated time.Time `json:"last_updated"`
}
