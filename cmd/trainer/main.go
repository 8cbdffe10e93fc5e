// Command trainer runs one synchronous training pass and exits. It is
// meant for cron jobs and CI, where the async API queue is unnecessary.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/AsipreVerse/decisivis-engine/internal/config"
	"github.com/AsipreVerse/decisivis-engine/internal/logic"
	"github.com/AsipreVerse/decisivis-engine/internal/models"
	"github.com/AsipreVerse/decisivis-engine/internal/store"
	"github.com/AsipreVerse/decisivis-engine/internal/training"
)

func main() {
	minMatches := flag.Int("min-matches", 0, "override the minimum match count (0 uses TRAIN_MIN_MATCHES)")
	dryRun := flag.Bool("dry-run", false, "train and report metrics without persisting the artifact or ratings")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pg, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		sugar.Fatalw("Failed to create Postgres pool", "error", err)
	}
	defer pg.Close()

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		sugar.Fatalw("Invalid Redis URL", "error", err)
	}
	rdb := redis.NewClient(redisOpts)
	defer rdb.Close()

	matchStore := store.NewMatchStore(pg)
	ratingStore := store.NewRatingStore(pg)
	artifactStore := store.NewArtifactStore(pg, rdb, sugar)

	trainCfg := training.DefaultConfig()
	trainCfg.MinMatches = cfg.MinMatches
	trainCfg.MinSamples = cfg.MinSamples
	trainCfg.WarmupMatches = cfg.WarmupMatches
	trainCfg.TestFraction = cfg.TestFraction
	trainCfg.Iterations = cfg.Iterations
	trainCfg.LearningRate = cfg.LearningRate
	if *minMatches > 0 {
		trainCfg.MinMatches = *minMatches
	}

	var artifact *models.Artifact
	if *dryRun {
		matches, err := matchStore.AllOrdered(ctx)
		if err != nil {
			sugar.Fatalw("Failed to load match history", "error", err)
		}
		result, err := training.NewPipeline(trainCfg, sugar).Run(ctx, matches)
		if err != nil {
			sugar.Fatalw("Training failed", "error", err)
		}
		artifact = result.Artifact
		sugar.Infow("Dry run: nothing persisted", "teams", len(result.Ratings))
	} else {
		svc := logic.NewTrainingService(matchStore, ratingStore, artifactStore, trainCfg, sugar)
		artifact, err = svc.Train(ctx)
		if err != nil {
			sugar.Fatalw("Training failed", "error", err)
		}
	}

	sugar.Infow("Training complete",
		"artifact_id", artifact.ID,
		"train_samples", artifact.TrainSamples,
		"test_samples", artifact.TestSamples,
		"skipped", artifact.SkippedSamples,
		"train_accuracy", artifact.Metrics.TrainAccuracy,
		"test_accuracy", artifact.Metrics.TestAccuracy,
		"f1", artifact.Metrics.F1,
	)
}
