package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/samber/lo"

	"github.com/crafthouse/crafthouse/internal/domain"
	jobmetrics "github.com/crafthouse/crafthouse/internal/jobs"
	"github.com/crafthouse/crafthouse/internal/materials"
	"github.com/crafthouse/crafthouse/internal/views"
)

// MaterialSource lists raw materials together with their low-stock state.
type MaterialSource interface {
	List(ctx context.Context) ([]materials.Material, error)
	LowStock(ctx context.Context) (materials.LowStockReport, error)
}

// LowStockScanJob warns about raw materials at or below the threshold.
type LowStockScanJob struct {
	Materials MaterialSource
	Logger    *slog.Logger
	Metrics   *jobmetrics.Metrics
}

// NewLowStockScanJob initialises the scan handler.
func NewLowStockScanJob(source MaterialSource, logger *slog.Logger, metrics *jobmetrics.Metrics) *LowStockScanJob {
	return &LowStockScanJob{Materials: source, Logger: logger, Metrics: metrics}
}

// Handle executes the scan.
func (j *LowStockScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Materials == nil {
		return errors.New("low stock scan: handler not configured")
	}
	var payload LowStockScanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	tracker := j.metrics().Track(TaskLowStockScan)
	_, err := j.Run(ctx, payload.Threshold)
	if err = tracker.End(err); err != nil {
		j.logger().Error("scan failed", slog.Any("error", err))
		return err
	}
	return nil
}

// Run returns the low-stock report. A non-nil override replaces the stored
// threshold for this run only.
func (j *LowStockScanJob) Run(ctx context.Context, override *int) (materials.LowStockReport, error) {
	var report materials.LowStockReport
	if override == nil {
		var err error
		if report, err = j.Materials.LowStock(ctx); err != nil {
			return report, err
		}
	} else {
		items, err := j.Materials.List(ctx)
		if err != nil {
			return report, err
		}
		report.Threshold = *override
		report.Materials = views.LowStock(rawMaterials(items), *override)
	}

	logger := j.logger().With(slog.Int("threshold", report.Threshold))
	for _, m := range report.Materials {
		available := "unknown"
		if m.AvailableQuantity != nil {
			available = m.AvailableQuantity.String()
		}
		logger.Warn("raw material low on stock",
			slog.String("material", m.Name),
			slog.String("available", available),
			slog.String("unit", m.Unit),
		)
	}
	j.metrics().SetLowStock(len(report.Materials))
	logger.Info("completed low stock scan", slog.Int("low", len(report.Materials)))
	return report, nil
}

func (j *LowStockScanJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskLowStockScan))
	}
	return slog.Default().With(slog.String("job", TaskLowStockScan))
}

func (j *LowStockScanJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func rawMaterials(items []materials.Material) []domain.RawMaterial {
	return lo.Map(items, func(m materials.Material, _ int) domain.RawMaterial { return m.RawMaterial })
}
