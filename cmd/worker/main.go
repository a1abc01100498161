package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"contextlab/internal/bootstrap"
	"contextlab/internal/config"
	"contextlab/internal/observability/logging"
	"contextlab/internal/observability/metrics"
)

const service = "worker"

func main() {
	cfg := config.Load()
	logger := logging.NewJSONLogger(service, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	m := metrics.NewWorkerMetrics(service)
	metricsServer := &http.Server{
		Addr:    ":" + cfg.WorkerMetricsPort,
		Handler: m.Handler(),
	}
	go func() {
		logger.Info("worker_metrics_listening", "port", cfg.WorkerMetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("worker_metrics_failed", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	logger.Info("worker_subscribed", "subject", cfg.NATSSubject)
	err = app.Queue.SubscribeRunQueued(ctx, func(handlerCtx context.Context, runID string) error {
		runCtx, cancel := context.WithTimeout(handlerCtx, 15*time.Minute)
		defer cancel()

		if run, err := app.Repo.GetByID(runCtx, runID); err == nil {
			m.ObserveQueueLag(service, time.Since(run.CreatedAt))
		}

		m.StartRun()
		start := time.Now()
		runErr := app.RunUC.RunByID(runCtx, runID)
		m.FinishRun(service, time.Since(start), runErr)

		if runErr == nil {
			if run, err := app.Repo.GetByID(runCtx, runID); err == nil {
				m.AddTokensSaved(service, run.TokensSaved)
			}
			if cases, err := app.Repo.ListCases(runCtx, runID); err == nil {
				for _, c := range cases {
					m.RecordCase(service, c.Score == 1)
				}
			}
		}
		return runErr
	})
	if err != nil {
		logger.Error("worker_subscribe_failed", "error", err)
		os.Exit(1)
	}
}
