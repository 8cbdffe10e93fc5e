// Package features computes the point-in-time signals behind a match
// prediction and assembles them into the ordered vector the classifier
// consumes. Every window looks strictly before the target date: nothing
// from the target match itself, or any later match, may leak into a
// feature.
package features

import (
	"time"

	"github.com/AsipreVerse/decisivis-engine/internal/models"
)

// Canonical temporal-decay schedule, most recent match first. Weight
// index 0 applies to the latest match in the window.
var decayWeights = [5]float64{2.0, 1.5, 1.0, 1.0, 1.0}

const (
	formWindow = 5
	h2hWindow  = 5
	shotWindow = 5

	// Fallbacks when a team has no prior matches in its venue role and no
	// global average is available.
	defaultHomeShotsOnTarget = 5.0
	defaultAwayShotsOnTarget = 4.0

	neutralForm = 0.5
	neutralH2H  = 0.5

	fatigueThresholdDays = 3
)

// Extractor computes primitive features from an in-memory, chronologically
// ordered match history. It holds no state of its own; all methods are
// read-only and safe for concurrent use over the same history slice.
type Extractor struct {
	history []models.Match
}

// NewExtractor wraps a history slice sorted by date ascending. The slice
// is not copied; the caller must not mutate it while the extractor is in
// use.
func NewExtractor(history []models.Match) *Extractor {
	return &Extractor{history: history}
}

// before yields history matches with date strictly before the cutoff, most
// recent first, filtered by keep, up to limit. History is date-ascending,
// so the backward scan visits matches in recency order.
func (e *Extractor) before(cutoff time.Time, limit int, keep func(*models.Match) bool) []models.Match {
	out := make([]models.Match, 0, limit)
	for i := len(e.history) - 1; i >= 0 && len(out) < limit; i-- {
		m := &e.history[i]
		if !m.Date.Before(cutoff) {
			continue
		}
		if keep(m) {
			out = append(out, *m)
		}
	}
	return out
}

// ShotAverages returns the two venue-role shots-on-target averages: the
// home team's mean over its last 5 home matches and the away team's mean
// over its last 5 away matches, both strictly before date. A team with no
// usable prior matches in its role falls back to the global average for
// that role, then to a fixed constant.
func (e *Extractor) ShotAverages(homeTeam, awayTeam string, date time.Time) (float64, float64) {
	homeAvg, homeOK := e.roleShotAverage(homeTeam, date, true)
	awayAvg, awayOK := e.roleShotAverage(awayTeam, date, false)

	if !homeOK {
		homeAvg = e.globalShotAverage(date, true, defaultHomeShotsOnTarget)
	}
	if !awayOK {
		awayAvg = e.globalShotAverage(date, false, defaultAwayShotsOnTarget)
	}
	return homeAvg, awayAvg
}

func (e *Extractor) roleShotAverage(team string, date time.Time, home bool) (float64, bool) {
	recent := e.before(date, shotWindow, func(m *models.Match) bool {
		if home {
			return m.HomeTeam == team && m.HomeShotsOnTarget != nil
		}
		return m.AwayTeam == team && m.AwayShotsOnTarget != nil
	})
	if len(recent) == 0 {
		return 0, false
	}
	var sum float64
	for _, m := range recent {
		if home {
			sum += float64(*m.HomeShotsOnTarget)
		} else {
			sum += float64(*m.AwayShotsOnTarget)
		}
	}
	return sum / float64(len(recent)), true
}

func (e *Extractor) globalShotAverage(date time.Time, home bool, fallback float64) float64 {
	var sum float64
	var n int
	for i := range e.history {
		m := &e.history[i]
		if !m.Date.Before(date) {
			continue
		}
		if home && m.HomeShotsOnTarget != nil {
			sum += float64(*m.HomeShotsOnTarget)
			n++
		} else if !home && m.AwayShotsOnTarget != nil {
			sum += float64(*m.AwayShotsOnTarget)
			n++
		}
	}
	if n == 0 {
		return fallback
	}
	return sum / float64(n)
}

// Form is the team's decayed recent form over its last 5 matches in either
// role before date: points (3/1/0) weighted by the decay schedule, most
// recent first, normalized by usedWeightSum*3 onto [0, 1]. A team with no
// prior matches gets the neutral 0.5.
func (e *Extractor) Form(team string, date time.Time) float64 {
	recent := e.before(date, formWindow, func(m *models.Match) bool {
		return m.Involves(team)
	})
	if len(recent) == 0 {
		return neutralForm
	}

	var weightedSum, weightSum float64
	for i, m := range recent {
		w := decayWeights[i]
		weightedSum += float64(m.PointsFor(team)) * w
		weightSum += w
	}
	return weightedSum / (weightSum * 3.0)
}

// HeadToHead is the target home team's points share over the last up-to-5
// meetings between the two teams, regardless of venue, before date
// (Win=1.0, Draw=0.5, Loss=0.0 from the target home team's perspective,
// averaged). Zero prior meetings yields the neutral 0.5.
func (e *Extractor) HeadToHead(homeTeam, awayTeam string, date time.Time) float64 {
	meetings := e.before(date, h2hWindow, func(m *models.Match) bool {
		return (m.HomeTeam == homeTeam && m.AwayTeam == awayTeam) ||
			(m.HomeTeam == awayTeam && m.AwayTeam == homeTeam)
	})
	if len(meetings) == 0 {
		return neutralH2H
	}

	var points float64
	for _, m := range meetings {
		switch {
		case m.Result == models.OutcomeDraw:
			points += 0.5
		case m.Result == models.OutcomeHome && m.HomeTeam == homeTeam:
			points += 1.0
		case m.Result == models.OutcomeAway && m.AwayTeam == homeTeam:
			points += 1.0
		}
	}
	return points / float64(len(meetings))
}

// Momentum is the team's points trend: points from its last 3 matches
// minus points from the 3 before those, normalized by the 9 points
// available per block. Fewer than 6 prior matches yields 0 (no trend
// signal).
func (e *Extractor) Momentum(team string, date time.Time) float64 {
	recent := e.before(date, 6, func(m *models.Match) bool {
		return m.Involves(team)
	})
	if len(recent) < 6 {
		return 0.0
	}
	var latest, previous int
	for i := 0; i < 3; i++ {
		latest += recent[i].PointsFor(team)
		previous += recent[i+3].PointsFor(team)
	}
	return (float64(latest) - float64(previous)) / 9.0
}

// RestDays returns the days elapsed since the team's last match before
// date, and whether any prior match exists. Teams without history are
// treated as rested.
func (e *Extractor) RestDays(team string, date time.Time) (int, bool) {
	last := e.before(date, 1, func(m *models.Match) bool {
		return m.Involves(team)
	})
	if len(last) == 0 {
		return 7, false
	}
	return int(date.Sub(last[0].Date).Hours() / 24), true
}

// Fatigued flags a short-rest turnaround: fewer than 3 days since the last
// match.
func (e *Extractor) Fatigued(team string, date time.Time) bool {
	days, ok := e.RestDays(team, date)
	return ok && days < fatigueThresholdDays
}

// PressureIndex scores a side's disciplinary load in a played match:
// fouls + 2*yellows + 5*reds. Missing stats count as zero.
func PressureIndex(fouls, yellows, reds *int) float64 {
	val := func(p *int) float64 {
		if p == nil {
			return 0
		}
		return float64(*p)
	}
	return val(fouls) + 2*val(yellows) + 5*val(reds)
}
