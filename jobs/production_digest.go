package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/crafthouse/crafthouse/internal/jobs"
	"github.com/crafthouse/crafthouse/internal/production"
	"github.com/crafthouse/crafthouse/internal/views"
)

// BoardSource builds the production board of a day.
type BoardSource interface {
	BoardFor(ctx context.Context, day time.Time) (production.Board, error)
}

// Digest summarises one production board.
type Digest struct {
	Date      string         `json:"date"`
	Orders    int            `json:"orders"`
	Items     int            `json:"items"`
	Completed int            `json:"completed"`
	Processed int            `json:"processed"`
	PerBatch  map[string]int `json:"perBatch"`
}

// ProductionDigestJob logs and exports a summary of a day's production.
type ProductionDigestJob struct {
	Boards   BoardSource
	Location *time.Location
	Logger   *slog.Logger
	Metrics  *jobmetrics.Metrics
	clock    func() time.Time
}

// NewProductionDigestJob initialises the digest handler.
func NewProductionDigestJob(boards BoardSource, loc *time.Location, logger *slog.Logger, metrics *jobmetrics.Metrics) *ProductionDigestJob {
	if loc == nil {
		loc = time.Local
	}
	return &ProductionDigestJob{
		Boards:   boards,
		Location: loc,
		Logger:   logger,
		Metrics:  metrics,
		clock:    time.Now,
	}
}

// Handle executes the digest.
func (j *ProductionDigestJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Boards == nil {
		return errors.New("production digest: handler not configured")
	}
	var payload ProductionDigestPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	day := j.now().In(j.Location)
	if payload.Date != "" {
		parsed, err := time.ParseInLocation(time.DateOnly, payload.Date, j.Location)
		if err != nil {
			j.logger().Warn("invalid digest date", slog.String("date", payload.Date))
			return asynq.SkipRetry
		}
		day = parsed
	}

	tracker := j.metrics().Track(TaskProductionDigest)
	_, err := j.Run(ctx, day)
	if err = tracker.End(err); err != nil {
		j.logger().Error("digest failed", slog.Any("error", err))
		return err
	}
	return nil
}

// Run computes the digest for day and publishes it.
func (j *ProductionDigestJob) Run(ctx context.Context, day time.Time) (Digest, error) {
	board, err := j.Boards.BoardFor(ctx, day)
	if err != nil {
		return Digest{}, err
	}
	digest := Summarise(board)
	j.metrics().SetDigest(digest.Orders, digest.Items, digest.Completed)
	j.logger().Info("production digest",
		slog.String("date", digest.Date),
		slog.Int("orders", digest.Orders),
		slog.Int("items", digest.Items),
		slog.Int("completed", digest.Completed),
		slog.Int("processed", digest.Processed),
	)
	return digest, nil
}

// Summarise counts items per batch and by status.
func Summarise(board production.Board) Digest {
	digest := Digest{Date: board.Date, Orders: board.Orders, PerBatch: make(map[string]int, len(board.Batches))}
	for _, batch := range board.Batches {
		digest.PerBatch[batch.Product] += len(batch.Items)
		for _, item := range batch.Items {
			digest.Items++
			if item.Status == views.StatusCompleted {
				digest.Completed++
			}
			if item.Processed {
				digest.Processed++
			}
		}
	}
	return digest
}

func (j *ProductionDigestJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskProductionDigest))
	}
	return slog.Default().With(slog.String("job", TaskProductionDigest))
}

func (j *ProductionDigestJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *ProductionDigestJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now()
}
