package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"creditrisk/internal/batch"
	batchmetrics "creditrisk/internal/batch/metrics"
	"creditrisk/internal/batch/store"
	"creditrisk/internal/decision"
	"creditrisk/internal/platform/config"
	"creditrisk/internal/platform/health"
	"creditrisk/internal/platform/logger"
	"creditrisk/internal/platform/redis"
	"creditrisk/internal/predictor"
	"creditrisk/internal/scoring/handler"
	scoringmetrics "creditrisk/internal/scoring/metrics"
	"creditrisk/internal/scoring/service"
	httptransport "creditrisk/internal/transport/http"
	"creditrisk/pkg/platform/circuit"
	request "creditrisk/pkg/platform/middleware/request"
)

const (
	shutdownTimeout   = 10 * time.Second
	poolStatsInterval = 15 * time.Second
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server failed", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	log.Info("initializing creditrisk",
		"addr", cfg.Addr,
		"env", cfg.Environment,
		"risk_threshold", cfg.RiskThreshold,
		"batch_workers", cfg.BatchWorkers,
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	policy, err := decision.NewPolicy(cfg.RiskThreshold)
	if err != nil {
		return err
	}

	model, err := loadPredictor(cfg.ModelPath)
	if err != nil {
		return err
	}
	guarded := predictor.NewGuarded(model, predictor.WithLogger(log))
	log.Info("predictor ready", "predictor", guarded.Name())

	healthHandler := health.New(cfg.Environment)
	healthHandler.RegisterCheck("predictor", func(context.Context) error {
		if guarded.State() == circuit.StateOpen {
			return errors.New("circuit open")
		}
		return nil
	})

	resultStore, closeStore, err := newResultStore(ctx, cfg, reg, healthHandler, log)
	if err != nil {
		return err
	}
	defer closeStore()

	scorer := batch.NewScorer(
		batch.WithWorkers(cfg.BatchWorkers),
		batch.WithPolicy(policy),
		batch.WithMetrics(batchmetrics.New(reg)),
		batch.WithLogger(log),
	)
	svc := service.New(guarded, resultStore,
		service.WithPolicy(policy),
		service.WithScorer(scorer),
		service.WithMetrics(scoringmetrics.New(reg)),
		service.WithLogger(log),
	)
	scoringHandler := handler.New(svc, log,
		handler.WithMaxRows(cfg.MaxBatchRows),
		handler.WithMaxUploadBytes(cfg.MaxUploadBytes),
	)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Logger:   log,
		Timeout:  cfg.RequestTimeout,
		Latency:  request.NewMetrics(reg),
		Gatherer: reg,
	}, healthHandler, scoringHandler)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// loadPredictor returns the logistic model at path, or the score heuristic
// when no path is configured.
func loadPredictor(path string) (predictor.Predictor, error) {
	if path == "" {
		return predictor.NewHeuristic(nil), nil
	}
	model, err := predictor.LoadLogistic(path)
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", path, err)
	}
	return model, nil
}

// newResultStore picks redis when REDIS_URL is set and otherwise keeps
// results in memory.
func newResultStore(ctx context.Context, cfg config.Server, reg prometheus.Registerer, h *health.Handler, log *slog.Logger) (service.Store, func(), error) {
	client, err := redis.New(ctx, cfg.Redis, redis.NewPoolMetrics(reg))
	if err != nil {
		return nil, nil, err
	}
	if client == nil {
		log.Info("using in-memory result store", "ttl", cfg.ResultTTL)
		return store.NewMemoryStore(cfg.ResultTTL), func() {}, nil
	}

	h.RegisterCheck("redis", client.Health)
	go client.RunPoolStats(ctx, poolStatsInterval)
	log.Info("using redis result store", "ttl", cfg.ResultTTL)
	return store.NewRedisStore(client, cfg.ResultTTL), func() {
		if err := client.Close(); err != nil {
			log.Warn("failed to close redis client", "error", err)
		}
	}, nil
}
