package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/crafthouse/crafthouse/internal/domain"
	jobmetrics "github.com/crafthouse/crafthouse/internal/jobs"
	"github.com/crafthouse/crafthouse/internal/materials"
	"github.com/crafthouse/crafthouse/internal/production"
	fixtures "github.com/crafthouse/crafthouse/testing"
)

var now = time.Date(2024, 5, 10, 10, 0, 0, 0, time.UTC)

func TestProductionDigestCountsItems(t *testing.T) {
	repo, _ := fixtures.Repository(t, now)
	fixtures.Seed(t, repo, fixtures.Catalogue())
	order, err := repo.SaveOrder(context.Background(), domain.Order{
		OrderDate: now,
		Source:    domain.SourcePlaced,
		Products:  []domain.OrderLine{{Product: "T-Shirt", Quantity: 2}},
	})
	require.NoError(t, err)

	prod := production.NewService(repo, time.UTC, fixtures.Logger())
	id := domain.ItemID{OrderID: order.ID, Product: "T-Shirt", Unit: 0}
	for step := 0; step < 3; step++ {
		_, err := prod.ToggleStep(context.Background(), production.StepInput{Item: id, Step: step, Checked: true})
		require.NoError(t, err)
	}

	job := NewProductionDigestJob(prod, time.UTC, fixtures.Logger(), jobmetrics.NewMetrics(prometheus.NewRegistry()))
	job.clock = func() time.Time { return now }

	digest, err := job.Run(context.Background(), now)
	require.NoError(t, err)
	require.Equal(t, "2024-05-10", digest.Date)
	require.Equal(t, 1, digest.Orders)
	require.Equal(t, 2, digest.Items)
	require.Equal(t, 1, digest.Completed)
	require.Equal(t, 0, digest.Processed)
	require.Equal(t, map[string]int{"T-Shirt": 2}, digest.PerBatch)

	task, err := NewProductionDigestTask(time.Time{})
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))
}

func TestProductionDigestRejectsBadPayload(t *testing.T) {
	repo, _ := fixtures.Repository(t, now)
	job := NewProductionDigestJob(production.NewService(repo, time.UTC, fixtures.Logger()), time.UTC, fixtures.Logger(), nil)

	body, err := json.Marshal(ProductionDigestPayload{Date: "10/05/2024"})
	require.NoError(t, err)
	err = job.Handle(context.Background(), asynq.NewTask(TaskProductionDigest, body))
	require.True(t, errors.Is(err, asynq.SkipRetry))

	err = job.Handle(context.Background(), asynq.NewTask(TaskProductionDigest, []byte("{")))
	require.True(t, errors.Is(err, asynq.SkipRetry))

	var unset *ProductionDigestJob
	require.Error(t, unset.Handle(context.Background(), asynq.NewTask(TaskProductionDigest, nil)))
}

func TestLowStockScanUsesStoredThreshold(t *testing.T) {
	repo, _ := fixtures.Repository(t, now)
	fixtures.Seed(t, repo, fixtures.Catalogue())
	job := NewLowStockScanJob(materials.NewService(repo), fixtures.Logger(), jobmetrics.NewMetrics(prometheus.NewRegistry()))

	report, err := job.Run(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, 10, report.Threshold)
	require.Len(t, report.Materials, 1)
	require.Equal(t, "Dye", report.Materials[0].Name)

	override := 60
	report, err = job.Run(context.Background(), &override)
	require.NoError(t, err)
	require.Equal(t, 60, report.Threshold)
	require.Len(t, report.Materials, 2)

	task, err := NewLowStockScanTask(&override)
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))
}

func TestNewTask(t *testing.T) {
	task, err := NewTask(TaskLowStockScan)
	require.NoError(t, err)
	require.Equal(t, TaskLowStockScan, task.Type())

	task, err = NewTask(TaskProductionDigest)
	require.NoError(t, err)
	require.JSONEq(t, `{}`, string(task.Payload()))

	_, err = NewTask("mail:send")
	require.Error(t, err)

	negative := -1
	_, err = NewLowStockScanTask(&negative)
	require.Error(t, err)
}

func TestClientEnqueuesOnDefaultQueue(t *testing.T) {
	mr := miniredis.RunT(t)
	client := NewClient(asynq.RedisClientOpt{Addr: mr.Addr()})
	defer client.Close()

	info, err := client.EnqueueLowStockScan(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, QueueDefault, info.Queue)
	require.Equal(t, TaskLowStockScan, info.Type)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	pending, err := rdb.LLen(context.Background(), "asynq:{default}:pending").Result()
	require.NoError(t, err)
	require.EqualValues(t, 1, pending)
}

type stubInspector struct {
	info *asynq.QueueInfo
	err  error
}

func (s stubInspector) GetQueueInfo(string) (*asynq.QueueInfo, error) {
	return s.info, s.err
}

func TestHealthEndpoint(t *testing.T) {
	cases := []struct {
		name      string
		inspector QueueInspector
		status    int
		body      string
	}{
		{"no queue", nil, http.StatusOK, `"pending":0`},
		{"pending", stubInspector{info: &asynq.QueueInfo{Queue: "default", Pending: 3}}, http.StatusOK, `"pending":3`},
		{"unknown queue", stubInspector{err: asynq.ErrQueueNotFound}, http.StatusOK, `"queue":"default"`},
		{"broken", stubInspector{err: errors.New("dial tcp")}, http.StatusServiceUnavailable, `Queue unavailable`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := chi.NewRouter()
			r.Route("/jobs", NewHandler(tc.inspector, fixtures.Logger()).MountRoutes)
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/jobs/health", nil))
			require.Equal(t, tc.status, rr.Code)
			require.Contains(t, rr.Body.String(), tc.body)
		})
	}
}
