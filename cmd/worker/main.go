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

	"github.com/joho/godotenv"
	"github.com/jusunglee/indicate/internal/db/postgres"
	"github.com/jusunglee/indicate/internal/health"
	"github.com/jusunglee/indicate/internal/jobs"
	"github.com/jusunglee/indicate/internal/logger"
	"github.com/jusunglee/indicate/internal/metrics"
	"github.com/jusunglee/indicate/internal/transliteration"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
)

func main() {
	if err := mainE(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func mainE() error {
	_ = godotenv.Load()

	fs := ff.NewFlagSet("indicate-worker")
	var (
		databaseURL = fs.StringLong("database-url", "", "PostgreSQL connection URL")
		healthPort  = fs.Int64Long("health-port", 8080, "Health check port")
		maxWorkers  = fs.Int64Long("max-workers", 2, "Concurrent learn_correction jobs")
	)

	if err := ff.Parse(fs, os.Args[1:], ff.WithEnvVars()); err != nil {
		fmt.Printf("%s\n", ffhelp.Flags(fs))
		return fmt.Errorf("parsing flags: %w", err)
	}

	if *databaseURL == "" {
		return errors.New("database-url is required")
	}

	ctx, cancel := context.WithCancelCause(context.Background())
	log := logger.New()

	repo, err := postgres.New(ctx, *databaseURL)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer repo.Close()
	log.InfoContext(ctx, "connected to PostgreSQL database")

	engine, err := transliteration.New(ctx, transliteration.Config{Repository: repo, Logger: log})
	if err != nil {
		return fmt.Errorf("creating engine: %w", err)
	}
	defer engine.Close()

	// Serve Prometheus metrics on :9090
	go func() {
		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", promhttp.Handler())
		metricsServer := &http.Server{Addr: ":9090", Handler: metricsMux, ReadHeaderTimeout: 5 * time.Second}
		log.InfoContext(ctx, "starting metrics server", "addr", ":9090")
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.ErrorContext(ctx, "metrics server error", "error", err)
		}
	}()

	// Periodically export pgxpool stats as Prometheus gauges
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s := repo.PoolStats()
				metrics.DBPoolTotalConns.Set(float64(s.TotalConns()))
				metrics.DBPoolIdleConns.Set(float64(s.IdleConns()))
				metrics.DBPoolAcquiredConns.Set(float64(s.AcquiredConns()))
				metrics.DBPoolMaxConns.Set(float64(s.MaxConns()))
			case <-ctx.Done():
				return
			}
		}
	}()

	riverDriver := riverpgxv5.New(repo.Pool())

	migrator, err := rivermigrate.New(riverDriver, nil)
	if err != nil {
		return fmt.Errorf("creating river migrator: %w", err)
	}
	if _, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, nil); err != nil {
		return fmt.Errorf("running river migrations: %w", err)
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, jobs.NewLearnCorrectionWorker(engine, log))

	riverClient, err := river.NewClient(riverDriver, &river.Config{
		Logger: log,
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: int(*maxWorkers)},
		},
		Workers: workers,
	})
	if err != nil {
		return fmt.Errorf("creating river client: %w", err)
	}
	if err := riverClient.Start(ctx); err != nil {
		return fmt.Errorf("starting river client: %w", err)
	}

	healthServer := health.New(int(*healthPort), map[string]health.Check{
		"database": func(ctx context.Context) error { return repo.Pool().Ping(ctx) },
	})
	go func() {
		if err := healthServer.Start(); err != nil {
			log.ErrorContext(ctx, "health server error", "error", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Info("received signal, shutting down", "signal", sig)
		cancel(errors.New("signal received"))
	}()

	log.InfoContext(ctx, "worker started", "queue", river.QueueDefault, "max_workers", *maxWorkers)
	<-ctx.Done()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()
	// Finish in-flight batches before closing the pool.
	if err := riverClient.Stop(stopCtx); err != nil {
		log.Error("river client stop error", "error", err)
	}
	if err := healthServer.Shutdown(stopCtx); err != nil {
		log.Error("health server shutdown error", "error", err)
	}

	log.Info("worker stopped", "cause", context.Cause(ctx))
	return nil
}
