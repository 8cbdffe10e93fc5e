package features

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/AsipreVerse/decisivis-engine/internal/rating"
)

// ErrFeatureMismatch means a stored artifact's feature ordering does not
// match this binary's canonical one.
var ErrFeatureMismatch = errors.New("feature contract mismatch")

// Names is the canonical feature ordering. It is the single contract both
// the trainer and the serving layer depend on: scaler parameters and
// classifier coefficients are positional against this list, and every
// artifact records it. Reordering or renaming entries invalidates every
// previously trained model.
var Names = []string{
	"home_shots_on_target_avg",
	"away_shots_on_target_avg",
	"shots_differential",
	"home_advantage",
	"home_form",
	"away_form",
	"form_differential",
	"elo_differential",
	"elo_win_prob",
	"h2h_home_factor",
	"shots_diff_x_elo_prob",
	"form_diff_x_home_adv",
	"elo_diff_x_h2h",
}

// Count is the canonical vector length.
var Count = len(Names)

// Primitives are the raw per-fixture signals the assembler combines. All
// of them are point-in-time values computed from history strictly before
// the fixture date.
type Primitives struct {
	HomeShotsAvg float64
	AwayShotsAvg float64
	HomeForm     float64
	AwayForm     float64
	HomeElo      float64
	AwayElo      float64
	HeadToHead   float64
}

// Assemble builds the ordered vector from the primitives, appending the
// engineered interaction terms. Any NaN or Inf in a computed slot is a
// hard rejection: the caller skips the sample rather than feeding a
// silently coerced value into the model.
func Assemble(p Primitives) ([]float64, error) {
	eloDiff := p.HomeElo - p.AwayElo
	eloProb := rating.ExpectedScore(p.HomeElo, p.AwayElo)
	shotsDiff := p.HomeShotsAvg - p.AwayShotsAvg
	formDiff := p.HomeForm - p.AwayForm
	const homeAdvantage = 1.0

	vec := []float64{
		p.HomeShotsAvg,
		p.AwayShotsAvg,
		shotsDiff,
		homeAdvantage,
		p.HomeForm,
		p.AwayForm,
		formDiff,
		eloDiff,
		eloProb,
		p.HeadToHead,
		shotsDiff * eloProb,
		formDiff * homeAdvantage,
		eloDiff * p.HeadToHead,
	}

	for i, v := range vec {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("feature %q is not finite: %v", Names[i], v)
		}
	}
	return vec, nil
}

// ForFixture extracts the primitives for one (home, away, date) fixture
// from the extractor and the rating engine, then assembles the vector.
// Identical history and ratings yield a bit-identical vector.
func ForFixture(e *Extractor, elo *rating.Engine, homeTeam, awayTeam string, date time.Time) ([]float64, Primitives, error) {
	homeShots, awayShots := e.ShotAverages(homeTeam, awayTeam, date)
	p := Primitives{
		HomeShotsAvg: homeShots,
		AwayShotsAvg: awayShots,
		HomeForm:     e.Form(homeTeam, date),
		AwayForm:     e.Form(awayTeam, date),
		HomeElo:      elo.Rating(homeTeam),
		AwayElo:      elo.Rating(awayTeam),
		HeadToHead:   e.HeadToHead(homeTeam, awayTeam, date),
	}
	vec, err := Assemble(p)
	return vec, p, err
}

// CheckContract verifies that an artifact's recorded feature ordering
// matches the canonical one. A mismatch means the running binary would
// apply coefficients to the wrong columns; callers must treat it as a
// hard configuration error, not a warning.
func CheckContract(artifactNames []string) error {
	if len(artifactNames) != len(Names) {
		return fmt.Errorf("%w: artifact has %d features, binary expects %d",
			ErrFeatureMismatch, len(artifactNames), len(Names))
	}
	for i, name := range artifactNames {
		if name != Names[i] {
			return fmt.Errorf("%w: feature %d is %q in artifact but %q in binary",
				ErrFeatureMismatch, i, name, Names[i])
		}
	}
	return nil
}
