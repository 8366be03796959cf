package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/crafthouse/crafthouse/internal/app"
	jobmetrics "github.com/crafthouse/crafthouse/internal/jobs"
	"github.com/crafthouse/crafthouse/internal/materials"
	"github.com/crafthouse/crafthouse/internal/platform/kv"
	"github.com/crafthouse/crafthouse/internal/production"
	"github.com/crafthouse/crafthouse/internal/store"
	"github.com/crafthouse/crafthouse/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	if cfg.StoreDriver == kv.DriverMemory {
		logger.Warn("worker reads an in-memory store that no server shares; set STORE_DRIVER to redis or postgres")
	}
	kvStore, closeStore, err := kv.Open(ctx, cfg.StoreOptions())
	if err != nil {
		logger.Error("open store", slog.String("driver", cfg.StoreDriver), slog.Any("error", err))
		os.Exit(1)
	}
	defer closeStore()

	repo := store.New(kvStore, logger, nil, store.Options{DefaultLowStockThreshold: &cfg.DefaultLowStockThreshold})
	metrics := jobmetrics.NewMetrics(nil)

	digestJob := jobs.NewProductionDigestJob(production.NewService(repo, cfg.Location(), logger), cfg.Location(), logger, metrics)
	lowStockJob := jobs.NewLowStockScanJob(materials.NewService(repo), logger, metrics)

	digestTask, err := jobs.NewProductionDigestTask(time.Time{})
	if err != nil {
		logger.Error("build digest task", slog.Any("error", err))
		os.Exit(1)
	}
	lowStockTask, err := jobs.NewLowStockScanTask(nil)
	if err != nil {
		logger.Error("build low stock task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts:   asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:      logger,
		Concurrency: cfg.WorkerConcurrency,
		Location:    cfg.Location(),
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskProductionDigest, Handler: digestJob.Handle},
			{Type: jobs.TaskLowStockScan, Handler: lowStockJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.DigestCron, Task: digestTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: cfg.LowStockScanCron, Task: lowStockTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if cfg.WorkerMetricsAddr != "" {
		metricsServer := &http.Server{
			Addr:              cfg.WorkerMetricsAddr,
			Handler:           promhttp.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("serving worker metrics", slog.String("addr", cfg.WorkerMetricsAddr))
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Warn("worker metrics server", slog.Any("error", err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = metricsServer.Shutdown(shutdownCtx)
		}()
	}

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
