package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/AsipreVerse/decisivis-engine/internal/config"
	"github.com/AsipreVerse/decisivis-engine/internal/handlers"
	"github.com/AsipreVerse/decisivis-engine/internal/logic"
	"github.com/AsipreVerse/decisivis-engine/internal/store"
	"github.com/AsipreVerse/decisivis-engine/internal/training"
	"github.com/AsipreVerse/decisivis-engine/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	var logger *zap.Logger
	if cfg.Env == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
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
	if err := pg.Ping(ctx); err != nil {
		sugar.Fatalw("Failed to reach Postgres", "error", err)
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		sugar.Fatalw("Invalid Redis URL", "error", err)
	}
	rdb := redis.NewClient(redisOpts)
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		sugar.Fatalw("Failed to reach Redis", "error", err)
	}

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

	predictionSvc := logic.NewPredictionService(matchStore, ratingStore, artifactStore, sugar)
	trainingSvc := logic.NewTrainingService(matchStore, ratingStore, artifactStore, trainCfg, sugar)
	statsSvc := logic.NewStatsService(matchStore, ratingStore, artifactStore, sugar)

	runner := worker.NewRunner(trainingSvc, rdb, sugar)
	runner.Start(ctx)

	h := handlers.New(handlers.Config{
		Postgres:   pg,
		Redis:      rdb,
		Logger:     logger,
		TrainToken: cfg.TrainToken,
		Prediction: predictionSvc,
		Stats:      statsSvc,
		Trainer:    runner,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      h.Routes(cfg.AllowedOrigins),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sugar.Infow("API listening", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalw("Server failed", "error", err)
		}
	}()

	<-ctx.Done()
	sugar.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		sugar.Errorw("Server shutdown failed", "error", err)
	}
	runner.Stop()
	sugar.Info("Shutdown complete")
}
