package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/crafthouse/crafthouse/internal/app"
	"github.com/crafthouse/crafthouse/internal/categories"
	"github.com/crafthouse/crafthouse/internal/events"
	"github.com/crafthouse/crafthouse/internal/materials"
	"github.com/crafthouse/crafthouse/internal/observability"
	"github.com/crafthouse/crafthouse/internal/orders"
	"github.com/crafthouse/crafthouse/internal/platform/kv"
	"github.com/crafthouse/crafthouse/internal/production"
	"github.com/crafthouse/crafthouse/internal/products"
	"github.com/crafthouse/crafthouse/internal/replenishment"
	"github.com/crafthouse/crafthouse/internal/settings"
	"github.com/crafthouse/crafthouse/internal/store"
	"github.com/crafthouse/crafthouse/internal/suppliers"
	"github.com/crafthouse/crafthouse/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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

	kvStore, closeStore, err := kv.Open(ctx, cfg.StoreOptions())
	if err != nil {
		logger.Error("open store", slog.String("driver", cfg.StoreDriver), slog.Any("error", err))
		os.Exit(1)
	}
	defer closeStore()

	hub := events.NewHub(logger)
	repo := store.New(kvStore, logger, hub, store.Options{DefaultLowStockThreshold: &cfg.DefaultLowStockThreshold})
	metrics := observability.NewMetrics()

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	var pinger app.Pinger
	if p, ok := kvStore.(app.Pinger); ok {
		pinger = p
	}

	eventsHandler := events.NewHandler(logger, hub)

	router := app.NewRouter(app.RouterParams{
		Logger:               logger,
		Config:               cfg,
		Metrics:              metrics,
		Store:                pinger,
		MaterialsHandler:     materials.NewHandler(logger, materials.NewService(repo)),
		CategoriesHandler:    categories.NewHandler(logger, categories.NewService(repo)),
		ProductsHandler:      products.NewHandler(logger, products.NewService(repo)),
		OrdersHandler:        orders.NewHandler(logger, orders.NewService(repo)),
		ProductionHandler:    production.NewHandler(logger, production.NewService(repo, cfg.Location(), logger)),
		ReplenishmentHandler: replenishment.NewHandler(logger, replenishment.NewService(repo, logger)),
		SuppliersHandler:     suppliers.NewHandler(logger, suppliers.NewService(repo)),
		SettingsHandler:      settings.NewHandler(logger, settings.NewService(repo, logger)),
		EventsHandler:        eventsHandler,
		JobHandler:           jobs.NewHandler(inspector, logger),
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}
	server.RegisterOnShutdown(eventsHandler.Close)

	go func() {
		logger.Info("starting http server",
			slog.String("addr", cfg.AppAddr),
			slog.String("store", cfg.StoreDriver),
			slog.String("timezone", cfg.Location().String()),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
