// Package store is the data access layer: Postgres holds the append-only
// match history, the persisted Elo table and the model artifacts; Redis
// caches the latest artifact bundle. The core never touches this package;
// it consumes plain slices handed over by the logic layer.
package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PgPool defines the subset of the pgxpool interface the stores use,
// so tests can substitute mocks.
type PgPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}
