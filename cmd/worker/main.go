package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/vinarmkumar/HappMeal/internal/bootstrap"
	"github.com/vinarmkumar/HappMeal/internal/config"
	"github.com/vinarmkumar/HappMeal/internal/core/domain"
	"github.com/vinarmkumar/HappMeal/internal/observability/logging"
	"github.com/vinarmkumar/HappMeal/internal/observability/metrics"
)

const service = "worker"

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("dotenv_load_failed", "error", err)
	}
	cfg := config.Load()
	slog.SetDefault(logging.NewJSONLogger(service, cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	workerMetrics := metrics.NewWorkerMetrics(service)
	app, err := bootstrap.New(ctx, cfg, service, workerMetrics.Registerer())
	if err != nil {
		slog.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	metricsServer := &http.Server{
		Addr:              ":" + cfg.WorkerMetricsPort,
		Handler:           workerMetrics.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("worker_metrics_server_failed", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	slog.Info("worker_subscribed", "subject", cfg.NATSSubject, "queue_group", cfg.NATSQueueGroup)
	err = app.Queue.SubscribeImageRequested(ctx, func(handlerCtx context.Context, req domain.ImageRequest) error {
		if !req.RequestedAt.IsZero() {
			workerMetrics.ObserveQueueLag(service, time.Since(req.RequestedAt))
		}

		processCtx, cancel := context.WithTimeout(handlerCtx, cfg.WorkerTimeout)
		defer cancel()

		started := time.Now()
		workerMetrics.StartRequest()
		update, err := app.Updater.UpdateImage(processCtx, req.RecipeID, req.RecipeName, req.Cuisine)
		workerMetrics.FinishRequest(service, time.Since(started), err)
		if err != nil {
			return err
		}

		slog.Info("image_request_processed",
			"request_id", req.ID,
			"recipe_id", update.RecipeID,
			"source", update.Source,
			"duration_ms", time.Since(started).Milliseconds(),
		)
		return nil
	})
	if err != nil {
		slog.Error("worker_subscribe_failed", "error", err)
		os.Exit(1)
	}
}
