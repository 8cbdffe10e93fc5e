// Package worker runs training passes asynchronously so the HTTP layer can
// accept a train request and return immediately. Only one run executes at a
// time; progress is published to Redis for the status endpoint.
package worker

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/AsipreVerse/decisivis-engine/internal/logic"
	"github.com/AsipreVerse/decisivis-engine/internal/models"
)

// Prometheus metrics
var (
	trainingRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "decisivis_training_runs_total",
		Help: "Total number of training runs started",
	})

	trainingFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "decisivis_training_failures_total",
		Help: "Total number of training runs that failed",
	})

	trainingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "decisivis_training_duration_seconds",
		Help:    "Duration of training runs",
		Buckets: prometheus.ExponentialBuckets(1, 2, 10),
	})

	trainingSkipped = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "decisivis_training_skipped_samples",
		Help: "Samples skipped for missing data in the last training run",
	})
)

const statusKey = "training:status"

// StatusStore publishes training progress for the API to read back.
type StatusStore interface {
	HSet(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
}

// Runner owns the single training slot. Enqueue is non-blocking and
// reports false when a run is already queued or active.
type Runner struct {
	trainer logic.TrainingService
	status  StatusStore
	logger  *zap.SugaredLogger

	jobs   chan struct{}
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc

	mu   sync.Mutex
	busy bool
}

func NewRunner(trainer logic.TrainingService, status StatusStore, logger *zap.SugaredLogger) *Runner {
	return &Runner{
		trainer: trainer,
		status:  status,
		logger:  logger,
		jobs:    make(chan struct{}, 1),
	}
}

// Start launches the run loop.
func (r *Runner) Start(ctx context.Context) {
	r.ctx, r.cancel = context.WithCancel(ctx)
	r.wg.Add(1)
	go r.loop()
	r.logger.Info("Training runner started")
}

// Stop cancels any active run and waits for the loop to exit.
func (r *Runner) Stop() {
	r.logger.Info("Stopping training runner...")
	r.cancel()
	r.wg.Wait()
	r.logger.Info("Training runner stopped")
}

// Enqueue requests a training run. Returns false when a run is already
// queued or executing.
func (r *Runner) Enqueue() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.busy {
		return false
	}
	select {
	case r.jobs <- struct{}{}:
		r.busy = true
		r.publish(r.ctx, &models.TrainStatus{Status: "queued"})
		return true
	default:
		return false
	}
}

// Busy reports whether a run is queued or executing.
func (r *Runner) Busy() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.busy
}

// Status reads back the last published progress state.
func (r *Runner) Status(ctx context.Context) (*models.TrainStatus, error) {
	fields, err := r.status.HGetAll(ctx, statusKey).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return &models.TrainStatus{Status: "idle"}, nil
	}
	st := &models.TrainStatus{
		Status: fields["status"],
		Stage:  fields["stage"],
		Error:  fields["error"],
	}
	st.Samples = atoiField(fields["samples"])
	st.Skipped = atoiField(fields["skipped"])
	st.Accuracy = atofField(fields["accuracy"])
	if ts, err := time.Parse(time.RFC3339, fields["updated_at"]); err == nil {
		st.UpdatedAt = ts
	}
	return st, nil
}

func (r *Runner) loop() {
	defer r.wg.Done()
	for {
		select {
		case <-r.jobs:
			r.run()
			r.mu.Lock()
			r.busy = false
			r.mu.Unlock()
		case <-r.ctx.Done():
			return
		}
	}
}

func (r *Runner) run() {
	trainingRuns.Inc()
	start := time.Now()
	r.publish(r.ctx, &models.TrainStatus{Status: "running", Stage: "loading"})

	artifact, err := r.trainer.Train(r.ctx)
	trainingDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		trainingFailures.Inc()
		r.logger.Errorw("Training run failed", "error", err, "duration", time.Since(start))
		// Publish with a fresh context; the runner's own context may be the
		// reason the run stopped.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		r.publish(ctx, &models.TrainStatus{Status: "failed", Error: err.Error()})
		return
	}

	trainingSkipped.Set(float64(artifact.SkippedSamples))
	r.logger.Infow("Training run complete",
		"artifact_id", artifact.ID,
		"duration", time.Since(start),
		"test_accuracy", artifact.Metrics.TestAccuracy,
	)
	r.publish(r.ctx, &models.TrainStatus{
		Status:   "complete",
		Samples:  artifact.TrainSamples + artifact.TestSamples,
		Skipped:  artifact.SkippedSamples,
		Accuracy: artifact.Metrics.TestAccuracy,
	})
}

func (r *Runner) publish(ctx context.Context, st *models.TrainStatus) {
	if r.status == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := r.status.HSet(ctx, statusKey,
		"status", st.Status,
		"stage", st.Stage,
		"samples", st.Samples,
		"skipped", st.Skipped,
		"accuracy", st.Accuracy,
		"error", st.Error,
		"updated_at", time.Now().UTC().Format(time.RFC3339),
	).Err()
	if err != nil {
		r.logger.Warnw("Failed to publish training status", "status", st.Status, "error", err)
	}
}

func atoiField(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}

func atofField(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}
