package jobs

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/crafthouse/crafthouse/internal/jobs"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskProductionDigest summarises a day's production board.
	TaskProductionDigest = "production:digest"
	// TaskLowStockScan reports raw materials that need replenishment.
	TaskLowStockScan = "materials:low-stock-scan"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// ProductionDigestPayload selects the day to summarise. An empty Date means
// the day the task runs.
type ProductionDigestPayload struct {
	Date string `json:"date,omitempty"`
}

// NewProductionDigestTask constructs a digest task. A zero day leaves the
// date to the worker's clock.
func NewProductionDigestTask(day time.Time) (*asynq.Task, error) {
	payload := ProductionDigestPayload{}
	if !day.IsZero() {
		payload.Date = day.Format(time.DateOnly)
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskProductionDigest, body, asynq.Queue(QueueDefault)), nil
}

// LowStockScanPayload optionally overrides the stored threshold.
type LowStockScanPayload struct {
	Threshold *int `json:"threshold,omitempty"`
}

// NewLowStockScanTask constructs a low-stock scan task.
func NewLowStockScanTask(threshold *int) (*asynq.Task, error) {
	if threshold != nil && *threshold < 0 {
		return nil, fmt.Errorf("low stock scan: negative threshold %d", *threshold)
	}
	body, err := json.Marshal(LowStockScanPayload{Threshold: threshold})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLowStockScan, body, asynq.Queue(QueueDefault)), nil
}

// NewTask builds a task by type name for ad-hoc triggering.
func NewTask(taskType string) (*asynq.Task, error) {
	switch taskType {
	case TaskProductionDigest:
		return NewProductionDigestTask(time.Time{})
	case TaskLowStockScan:
		return NewLowStockScanTask(nil)
	default:
		return nil, fmt.Errorf("jobs: unknown task type %q", taskType)
	}
}
