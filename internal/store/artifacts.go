package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/AsipreVerse/decisivis-engine/internal/models"
)

// ErrNoArtifact is returned when no trained model has been stored yet.
var ErrNoArtifact = errors.New("no trained model artifact available")

const (
	latestModelKey = "model:latest"
	latestModelTTL = 24 * time.Hour
)

// ArtifactStore persists trained model artifacts in Postgres and caches the
// latest one in Redis. Postgres is the source of truth; the cache only
// short-circuits the common read path.
type ArtifactStore struct {
	pg     PgPool
	cache  *redis.Client
	logger *zap.SugaredLogger
}

func NewArtifactStore(pg PgPool, cache *redis.Client, logger *zap.SugaredLogger) *ArtifactStore {
	return &ArtifactStore{pg: pg, cache: cache, logger: logger}
}

// Save inserts the artifact and refreshes the latest-model cache. A cache
// write failure is logged but does not fail the save.
func (s *ArtifactStore) Save(ctx context.Context, artifact *models.Artifact) error {
	payload, err := json.Marshal(artifact)
	if err != nil {
		return fmt.Errorf("failed to marshal artifact: %w", err)
	}

	_, err = s.pg.Exec(ctx, `
		INSERT INTO model_artifacts (id, trained_at, payload)
		VALUES ($1, $2, $3)
	`, artifact.ID, artifact.TrainedAt, payload)
	if err != nil {
		return fmt.Errorf("failed to insert artifact: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, latestModelKey, payload, latestModelTTL).Err(); err != nil {
			s.logger.Warnw("Failed to cache latest artifact", "artifact_id", artifact.ID, "error", err)
		}
	}
	return nil
}

// Latest returns the most recently trained artifact, preferring the Redis
// cache and falling through to Postgres. Returns ErrNoArtifact when no
// model has been trained.
func (s *ArtifactStore) Latest(ctx context.Context) (*models.Artifact, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, latestModelKey).Bytes()
		if err == nil {
			var artifact models.Artifact
			if err := json.Unmarshal(cached, &artifact); err == nil {
				return &artifact, nil
			}
			s.logger.Warnw("Discarding unreadable cached artifact", "error", err)
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warnw("Artifact cache read failed", "error", err)
		}
	}

	var payload []byte
	err := s.pg.QueryRow(ctx, `
		SELECT payload
		FROM model_artifacts
		ORDER BY trained_at DESC
		LIMIT 1
	`).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoArtifact
	}
	if err != nil {
		return nil, fmt.Errorf("latest artifact query failed: %w", err)
	}

	var artifact models.Artifact
	if err := json.Unmarshal(payload, &artifact); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stored artifact: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, latestModelKey, payload, latestModelTTL).Err(); err != nil {
			s.logger.Warnw("Failed to backfill artifact cache", "error", err)
		}
	}
	return &artifact, nil
}
