package store

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/AsipreVerse/decisivis-engine/internal/models"
	"github.com/AsipreVerse/decisivis-engine/internal/rating"
)

type MockPgPool struct {
	QueryFunc    func(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRowFunc func(ctx context.Context, sql string, args ...any) pgx.Row
	ExecFunc     func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func (m *MockPgPool) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, sql, args...)
	}
	return nil, nil
}
func (m *MockPgPool) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if m.QueryRowFunc != nil {
		return m.QueryRowFunc(ctx, sql, args...)
	}
	return nil
}
func (m *MockPgPool) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if m.ExecFunc != nil {
		return m.ExecFunc(ctx, sql, args...)
	}
	return pgconn.CommandTag{}, nil
}

// MockMatchRows serves the same fixture row count times through the full
// matches column list.
type MockMatchRows struct {
	count int
	curr  int
}

func (r *MockMatchRows) Close()                                       {}
func (r *MockMatchRows) Err() error                                   { return nil }
func (r *MockMatchRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *MockMatchRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *MockMatchRows) Next() bool {
	r.curr++
	return r.curr <= r.count
}
func (r *MockMatchRows) Scan(dest ...any) error {
	// Dest order mirrors matchColumns.
	*dest[0].(*int64) = int64(r.curr)
	*dest[1].(*string) = "E0"
	*dest[2].(*time.Time) = time.Date(2024, 8, 17, 15, 0, 0, 0, time.UTC)
	*dest[3].(*string) = "Arsenal"
	*dest[4].(*string) = "Wolves"
	*dest[5].(*int) = 2
	*dest[6].(*int) = 0
	*dest[7].(*models.Outcome) = models.OutcomeHome

	sot := 7
	*dest[8].(**int) = &sot
	*dest[9].(**int) = &sot
	*dest[10].(**int) = nil
	*dest[11].(**int) = nil
	*dest[12].(**float64) = nil
	*dest[13].(**float64) = nil
	for i := 14; i < 22; i++ {
		*dest[i].(**int) = nil
	}
	return nil
}
func (r *MockMatchRows) Values() ([]any, error) { return nil, nil }
func (r *MockMatchRows) RawValues() [][]byte    { return nil }
func (r *MockMatchRows) Conn() *pgx.Conn        { return nil }

func TestMatchStoreAllOrdered(t *testing.T) {
	var gotSQL string
	mockPg := &MockPgPool{
		QueryFunc: func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
			gotSQL = sql
			return &MockMatchRows{count: 2}, nil
		},
	}

	store := NewMatchStore(mockPg)
	matches, err := store.AllOrdered(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("Expected 2 matches, got %d", len(matches))
	}
	if matches[0].HomeTeam != "Arsenal" || matches[0].Result != models.OutcomeHome {
		t.Errorf("Unexpected match row: %+v", matches[0])
	}
	if matches[0].HomeShots != nil {
		t.Errorf("Expected absent home shots to stay nil")
	}
	if !strings.Contains(gotSQL, "ORDER BY match_date ASC") {
		t.Errorf("Expected chronological ordering, got query: %s", gotSQL)
	}
}

func TestMatchStoreTeamRecentInRole(t *testing.T) {
	tests := []struct {
		name       string
		asHome     bool
		wantColumn string
	}{
		{"home role filters home_team", true, "home_team = $1"},
		{"away role filters away_team", false, "away_team = $1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotSQL string
			var gotArgs []any
			mockPg := &MockPgPool{
				QueryFunc: func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
					gotSQL = sql
					gotArgs = args
					return &MockMatchRows{count: 1}, nil
				},
			}

			store := NewMatchStore(mockPg)
			before := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)
			if _, err := store.TeamRecentInRole(context.Background(), "Arsenal", tt.asHome, before, 5); err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if !strings.Contains(gotSQL, tt.wantColumn) {
				t.Errorf("Expected filter %q in query: %s", tt.wantColumn, gotSQL)
			}
			if len(gotArgs) != 3 || gotArgs[2] != 5 {
				t.Errorf("Expected limit arg 5, got args %v", gotArgs)
			}
		})
	}
}

func TestRatingStoreSaveSnapshot(t *testing.T) {
	var gotSQL string
	var gotArgs []any
	mockPg := &MockPgPool{
		ExecFunc: func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
			gotSQL = sql
			gotArgs = args
			return pgconn.CommandTag{}, nil
		},
	}

	store := NewRatingStore(mockPg)
	snapshot := map[string]rating.TeamState{
		"Wolves":  {Rating: 1480.5, GamesPlayed: 40},
		"Arsenal": {Rating: 1620.2, GamesPlayed: 38},
	}
	if err := store.SaveSnapshot(context.Background(), snapshot); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !strings.Contains(gotSQL, "ON CONFLICT (team) DO UPDATE") {
		t.Errorf("Expected upsert statement, got: %s", gotSQL)
	}
	if len(gotArgs) != 8 {
		t.Fatalf("Expected 8 args for 2 teams, got %d", len(gotArgs))
	}
	// Sorted team order makes the statement deterministic.
	if gotArgs[0] != "Arsenal" || gotArgs[4] != "Wolves" {
		t.Errorf("Expected sorted team order, got %v and %v", gotArgs[0], gotArgs[4])
	}
	if gotArgs[1] != 1620.2 || gotArgs[6] != 40 {
		t.Errorf("Unexpected rating args: %v", gotArgs)
	}
}

func TestRatingStoreSaveSnapshotEmpty(t *testing.T) {
	mockPg := &MockPgPool{
		ExecFunc: func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
			t.Fatal("Exec should not be called for an empty snapshot")
			return pgconn.CommandTag{}, nil
		},
	}
	store := NewRatingStore(mockPg)
	if err := store.SaveSnapshot(context.Background(), nil); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
}

type MockArtifactRow struct {
	payload []byte
	err     error
}

func (r *MockArtifactRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*[]byte) = r.payload
	return nil
}

func TestArtifactStoreLatest(t *testing.T) {
	artifact := &models.Artifact{
		ID:           "run-1",
		FeatureNames: []string{"elo_differential"},
		TrainedAt:    time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC),
	}
	payload, _ := json.Marshal(artifact)

	mockPg := &MockPgPool{
		QueryRowFunc: func(ctx context.Context, sql string, args ...any) pgx.Row {
			return &MockArtifactRow{payload: payload}
		},
	}

	store := NewArtifactStore(mockPg, nil, zap.NewNop().Sugar())
	got, err := store.Latest(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got.ID != "run-1" || len(got.FeatureNames) != 1 {
		t.Errorf("Unexpected artifact: %+v", got)
	}
}

func TestArtifactStoreLatestEmpty(t *testing.T) {
	mockPg := &MockPgPool{
		QueryRowFunc: func(ctx context.Context, sql string, args ...any) pgx.Row {
			return &MockArtifactRow{err: pgx.ErrNoRows}
		},
	}

	store := NewArtifactStore(mockPg, nil, zap.NewNop().Sugar())
	if _, err := store.Latest(context.Background()); !errors.Is(err, ErrNoArtifact) {
		t.Errorf("Expected ErrNoArtifact, got %v", err)
	}
}
