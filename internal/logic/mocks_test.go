package logic

import (
	"context"
	"time"

	"github.com/AsipreVerse/decisivis-engine/internal/models"
	"github.com/AsipreVerse/decisivis-engine/internal/rating"
)

type MockMatchHistory struct {
	AllOrderedFunc       func(ctx context.Context) ([]models.Match, error)
	TeamRecentFunc       func(ctx context.Context, team string, before time.Time, limit int) ([]models.Match, error)
	TeamRecentInRoleFunc func(ctx context.Context, team string, asHome bool, before time.Time, limit int) ([]models.Match, error)
	HeadToHeadFunc       func(ctx context.Context, homeTeam, awayTeam string, before time.Time, limit int) ([]models.Match, error)
	RecentFunc           func(ctx context.Context, limit int) ([]models.Match, error)
	SummaryFunc          func(ctx context.Context) (int, int, *time.Time, *time.Time, error)
}

func (m *MockMatchHistory) AllOrdered(ctx context.Context) ([]models.Match, error) {
	if m.AllOrderedFunc != nil {
		return m.AllOrderedFunc(ctx)
	}
	return nil, nil
}
func (m *MockMatchHistory) TeamRecent(ctx context.Context, team string, before time.Time, limit int) ([]models.Match, error) {
	if m.TeamRecentFunc != nil {
		return m.TeamRecentFunc(ctx, team, before, limit)
	}
	return nil, nil
}
func (m *MockMatchHistory) TeamRecentInRole(ctx context.Context, team string, asHome bool, before time.Time, limit int) ([]models.Match, error) {
	if m.TeamRecentInRoleFunc != nil {
		return m.TeamRecentInRoleFunc(ctx, team, asHome, before, limit)
	}
	return nil, nil
}
func (m *MockMatchHistory) HeadToHead(ctx context.Context, homeTeam, awayTeam string, before time.Time, limit int) ([]models.Match, error) {
	if m.HeadToHeadFunc != nil {
		return m.HeadToHeadFunc(ctx, homeTeam, awayTeam, before, limit)
	}
	return nil, nil
}
func (m *MockMatchHistory) Recent(ctx context.Context, limit int) ([]models.Match, error) {
	if m.RecentFunc != nil {
		return m.RecentFunc(ctx, limit)
	}
	return nil, nil
}
func (m *MockMatchHistory) Summary(ctx context.Context) (int, int, *time.Time, *time.Time, error) {
	if m.SummaryFunc != nil {
		return m.SummaryFunc(ctx)
	}
	return 0, 0, nil, nil, nil
}

type MockRatingStore struct {
	SaveSnapshotFunc func(ctx context.Context, snapshot map[string]rating.TeamState) error
	RatingsFunc      func(ctx context.Context) ([]models.TeamRating, error)

	SavedSnapshot map[string]rating.TeamState
}

func (m *MockRatingStore) SaveSnapshot(ctx context.Context, snapshot map[string]rating.TeamState) error {
	m.SavedSnapshot = snapshot
	if m.SaveSnapshotFunc != nil {
		return m.SaveSnapshotFunc(ctx, snapshot)
	}
	return nil
}
func (m *MockRatingStore) Ratings(ctx context.Context) ([]models.TeamRating, error) {
	if m.RatingsFunc != nil {
		return m.RatingsFunc(ctx)
	}
	return nil, nil
}

type MockArtifactStore struct {
	SaveFunc   func(ctx context.Context, artifact *models.Artifact) error
	LatestFunc func(ctx context.Context) (*models.Artifact, error)

	Saved *models.Artifact
}

func (m *MockArtifactStore) Save(ctx context.Context, artifact *models.Artifact) error {
	m.Saved = artifact
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, artifact)
	}
	return nil
}
func (m *MockArtifactStore) Latest(ctx context.Context) (*models.Artifact, error) {
	if m.LatestFunc != nil {
		return m.LatestFunc(ctx)
	}
	return nil, nil
}
