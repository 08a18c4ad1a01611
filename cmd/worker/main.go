package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/parseapp/docpreview/internal/bootstrap"
	"github.com/parseapp/docpreview/internal/config"
	"github.com/parseapp/docpreview/internal/core/ports"
	"github.com/parseapp/docpreview/internal/observability/logging"
	"github.com/parseapp/docpreview/internal/observability/metrics"
)

const serviceName = "docpreview-worker"

func main() {
	cfg := config.Load()
	slog.SetDefault(logging.NewJSONLogger(serviceName, cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	workerMetrics := metrics.NewWorkerMetrics(serviceName)
	go serveMetrics(cfg.WorkerMetricsPort, workerMetrics)

	taskTimeout := time.Duration(cfg.TaskTimeoutSeconds) * time.Second

	slog.Info("worker subscribed", "subject", cfg.NATSTasksSubject)
	err = app.Executor.Run(ctx, func(handlerCtx context.Context, taskName string, payload ports.TaskPayload) (string, error) {
		taskCtx, cancel := context.WithTimeout(handlerCtx, taskTimeout)
		defer cancel()

		workerMetrics.StartTask()
		start := time.Now()
		preview, err := app.Tasks.Handle(taskCtx, taskName, payload)
		workerMetrics.FinishTask(serviceName, taskName, time.Since(start), err)
		return preview, err
	})
	if err != nil {
		log.Fatalf("worker run error: %v", err)
	}
}

func serveMetrics(port string, m *metrics.WorkerMetrics) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	slog.Info("worker metrics listening", "port", port)
	if err := http.ListenAndServe(":"+port, mux); err != nil && err != http.ErrServerClosed {
		slog.Error("worker metrics server error", "error", err)
	}
}
