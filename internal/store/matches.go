package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/AsipreVerse/decisivis-engine/internal/models"
)

const matchColumns = `
	id, division, match_date, home_team, away_team,
	home_goals, away_goals, result,
	home_shots_on_target, away_shots_on_target,
	home_shots, away_shots,
	home_elo_external, away_elo_external,
	home_fouls, away_fouls,
	home_corners, away_corners,
	home_yellow, away_yellow,
	home_red, away_red`

// MatchStore reads the append-only matches table. Ingestion and quality
// filtering (goals <= shots-on-target <= shots) happen upstream; every row
// here is trusted.
type MatchStore struct {
	pg PgPool
}

func NewMatchStore(pg PgPool) *MatchStore {
	return &MatchStore{pg: pg}
}

func scanMatch(rows pgx.Rows) (models.Match, error) {
	var m models.Match
	err := rows.Scan(
		&m.ID, &m.Division, &m.Date, &m.HomeTeam, &m.AwayTeam,
		&m.HomeGoals, &m.AwayGoals, &m.Result,
		&m.HomeShotsOnTarget, &m.AwayShotsOnTarget,
		&m.HomeShots, &m.AwayShots,
		&m.HomeEloExternal, &m.AwayEloExternal,
		&m.HomeFouls, &m.AwayFouls,
		&m.HomeCorners, &m.AwayCorners,
		&m.HomeYellow, &m.AwayYellow,
		&m.HomeRed, &m.AwayRed,
	)
	return m, err
}

func collectMatches(rows pgx.Rows) ([]models.Match, error) {
	defer rows.Close()
	var out []models.Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("match row iteration failed: %w", err)
	}
	return out, nil
}

// AllOrdered returns the full history sorted by date ascending, id as the
// stable tiebreak. This is the training pipeline's input order.
func (s *MatchStore) AllOrdered(ctx context.Context) ([]models.Match, error) {
	rows, err := s.pg.Query(ctx, `
		SELECT `+matchColumns+`
		FROM matches
		ORDER BY match_date ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("all matches query failed: %w", err)
	}
	return collectMatches(rows)
}

// TeamRecent returns the team's last N matches in either role strictly
// before a date, most recent first.
func (s *MatchStore) TeamRecent(ctx context.Context, team string, before time.Time, limit int) ([]models.Match, error) {
	rows, err := s.pg.Query(ctx, `
		SELECT `+matchColumns+`
		FROM matches
		WHERE (home_team = $1 OR away_team = $1) AND match_date < $2
		ORDER BY match_date DESC, id DESC
		LIMIT $3
	`, team, before, limit)
	if err != nil {
		return nil, fmt.Errorf("team recent query failed: %w", err)
	}
	return collectMatches(rows)
}

// TeamRecentInRole restricts TeamRecent to one venue role: home fixtures
// when asHome is true, away fixtures otherwise.
func (s *MatchStore) TeamRecentInRole(ctx context.Context, team string, asHome bool, before time.Time, limit int) ([]models.Match, error) {
	column := "away_team"
	if asHome {
		column = "home_team"
	}
	rows, err := s.pg.Query(ctx, `
		SELECT `+matchColumns+`
		FROM matches
		WHERE `+column+` = $1 AND match_date < $2
		ORDER BY match_date DESC, id DESC
		LIMIT $3
	`, team, before, limit)
	if err != nil {
		return nil, fmt.Errorf("team role query failed: %w", err)
	}
	return collectMatches(rows)
}

// HeadToHead returns the last N meetings between the two teams in either
// orientation strictly before a date, most recent first.
func (s *MatchStore) HeadToHead(ctx context.Context, homeTeam, awayTeam string, before time.Time, limit int) ([]models.Match, error) {
	rows, err := s.pg.Query(ctx, `
		SELECT `+matchColumns+`
		FROM matches
		WHERE ((home_team = $1 AND away_team = $2) OR (home_team = $2 AND away_team = $1))
		  AND match_date < $3
		ORDER BY match_date DESC, id DESC
		LIMIT $4
	`, homeTeam, awayTeam, before, limit)
	if err != nil {
		return nil, fmt.Errorf("head-to-head query failed: %w", err)
	}
	return collectMatches(rows)
}

// Recent returns the latest N matches for the API's recent-matches view.
func (s *MatchStore) Recent(ctx context.Context, limit int) ([]models.Match, error) {
	rows, err := s.pg.Query(ctx, `
		SELECT `+matchColumns+`
		FROM matches
		ORDER BY match_date DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent matches query failed: %w", err)
	}
	return collectMatches(rows)
}

// Summary reports dataset shape for the stats endpoint.
func (s *MatchStore) Summary(ctx context.Context) (total, teams int, earliest, latest *time.Time, err error) {
	err = s.pg.QueryRow(ctx, `
		SELECT
			count(*),
			count(DISTINCT home_team),
			min(match_date),
			max(match_date)
		FROM matches
	`).Scan(&total, &teams, &earliest, &latest)
	if err != nil {
		return 0, 0, nil, nil, fmt.Errorf("match summary query failed: %w", err)
	}
	return total, teams, earliest, latest, nil
}
