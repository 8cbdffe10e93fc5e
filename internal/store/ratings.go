package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/AsipreVerse/decisivis-engine/internal/models"
	"github.com/AsipreVerse/decisivis-engine/internal/rating"
)

// RatingStore persists the Elo table produced by a training run. The table
// always reflects the latest run; SaveSnapshot replaces it wholesale.
type RatingStore struct {
	pg PgPool
}

func NewRatingStore(pg PgPool) *RatingStore {
	return &RatingStore{pg: pg}
}

// SaveSnapshot replaces the stored ratings with the given snapshot in a
// single multi-row upsert. Teams are written in sorted order so the
// statement is deterministic for a given snapshot.
func (s *RatingStore) SaveSnapshot(ctx context.Context, snapshot map[string]rating.TeamState) error {
	if len(snapshot) == 0 {
		return nil
	}

	teams := make([]string, 0, len(snapshot))
	for team := range snapshot {
		teams = append(teams, team)
	}
	sort.Strings(teams)

	var sb strings.Builder
	sb.WriteString("INSERT INTO elo_ratings (team, rating, games_played, updated_at) VALUES ")

	args := make([]interface{}, 0, len(teams)*4)
	now := time.Now().UTC()
	for i, team := range teams {
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * 4
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d)", base+1, base+2, base+3, base+4)
		state := snapshot[team]
		args = append(args, team, state.Rating, state.GamesPlayed, now)
	}
	sb.WriteString(` ON CONFLICT (team) DO UPDATE SET
		rating = EXCLUDED.rating,
		games_played = EXCLUDED.games_played,
		updated_at = EXCLUDED.updated_at`)

	if _, err := s.pg.Exec(ctx, sb.String(), args...); err != nil {
		return fmt.Errorf("failed to save rating snapshot: %w", err)
	}
	return nil
}

// Ratings loads the full stored Elo table.
func (s *RatingStore) Ratings(ctx context.Context) ([]models.TeamRating, error) {
	rows, err := s.pg.Query(ctx, `
		SELECT team, rating, games_played, updated_at
		FROM elo_ratings
		ORDER BY rating DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("ratings query failed: %w", err)
	}
	defer rows.Close()

	var out []models.TeamRating
	for rows.Next() {
		var tr models.TeamRating
		if err := rows.Scan(&tr.Team, &tr.Rating, &tr.GamesPlayed, &tr.LastUpdated); err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		out = append(out, tr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rating row iteration failed: %w", err)
	}
	return out, nil
}
