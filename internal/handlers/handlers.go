package handlers

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/AsipreVerse/decisivis-engine/internal/logic"
	"github.com/AsipreVerse/decisivis-engine/internal/models"
)

// MaxBodySize limits the size of request bodies to 1MB
const MaxBodySize = 1048576

// TrainQueue defines the interface for the async training runner
type TrainQueue interface {
	Enqueue() bool
	Busy() bool
	Status(ctx context.Context) (*models.TrainStatus, error)
}

type Config struct {
	Postgres   *pgxpool.Pool
	Redis      *redis.Client
	Logger     *zap.Logger
	TrainToken string
	// Services
	Prediction logic.PredictionService
	Stats      logic.StatsService
	Trainer    TrainQueue
}

type Handler struct {
	pg         *pgxpool.Pool
	redis      *redis.Client
	logger     *zap.SugaredLogger
	validator  *validator.Validate
	trainToken string
	prediction logic.PredictionService
	stats      logic.StatsService
	trainer    TrainQueue
}

func New(cfg Config) *Handler {
	return &Handler{
		pg:         cfg.Postgres,
		redis:      cfg.Redis,
		logger:     cfg.Logger.Sugar(),
		validator:  validator.New(),
		trainToken: cfg.TrainToken,
		prediction: cfg.Prediction,
		stats:      cfg.Stats,
		trainer:    cfg.Trainer,
	}
}
