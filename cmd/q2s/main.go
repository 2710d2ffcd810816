package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ls-cnr/q2s-experiment/internal/api"
	"github.com/ls-cnr/q2s-experiment/internal/config"
	"github.com/ls-cnr/q2s-experiment/internal/events"
	"github.com/ls-cnr/q2s-experiment/internal/loader"
	"github.com/ls-cnr/q2s-experiment/internal/scenario"
	"github.com/ls-cnr/q2s-experiment/internal/store"
	"github.com/ls-cnr/q2s-experiment/internal/sweep"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Experiment inputs
	plans, err := loader.LoadPlans(cfg.Inputs.PlansPath)
	if err != nil {
		logger.Error("failed to load plans", "error", err)
		os.Exit(1)
	}
	contributions, err := loader.LoadContributions(cfg.Inputs.ContributionsPath)
	if err != nil {
		logger.Error("failed to load contributions", "error", err)
		os.Exit(1)
	}
	logger.Info("inputs loaded",
		"plans", len(plans),
		"domain_variables", len(contributions),
		"quality_goals", len(cfg.Inputs.QualityGoals))

	// Database (optional; falls back to in-memory)
	var db store.Store
	if cfg.Database.URL != "" {
		pg, err := store.NewPostgresStore(ctx, cfg.Database.URL)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		db = pg
		logger.Info("connected to database")
	} else {
		db = store.NewMemoryStore()
		logger.Info("no database configured, using in-memory store")
	}
	defer db.Close()

	// Events (optional)
	var eventsClient events.Client
	if cfg.Events.URL != "" {
		ec, err := events.NewNATSClient(ctx, cfg.Events.URL, logger)
		if err != nil {
			logger.Warn("failed to connect to nats, running without events", "error", err)
		} else {
			eventsClient = ec
			defer ec.Close()
			logger.Info("connected to nats")
		}
	}

	dimensionKeys := make([]string, len(cfg.Space.Dimensions))
	for i, dim := range cfg.Space.Dimensions {
		dimensionKeys[i] = dim.Key
	}

	// Sweep runner over the configured scenario space
	evaluator := scenario.NewEvaluator(plans, contributions, cfg.Inputs.QualityGoals, cfg.Sweep.RandomRuns)
	scenarios := scenario.Enumerate(cfg.Space)
	runner := sweep.NewRunner(db, eventsClient, evaluator, scenarios,
		cfg.Sweep.Workers, cfg.ProgressInterval(), cfg.Report.OutputDir, dimensionKeys, logger)
	logger.Info("scenario space ready", "scenarios", len(scenarios), "workers", cfg.Sweep.Workers)

	// API server
	runs := api.NewRunsHandler(db, runner, ctx, cfg.Sweep.Seed, cfg.Sweep.RandomRuns, dimensionKeys, logger)
	apiServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: api.NewRouter(runs),
	}

	// Metrics server
	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.MetricsPort),
		Handler: api.NewMetricsRouter(),
	}

	go func() {
		logger.Info("API server starting", "port", cfg.Server.Port)
		if err := apiServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("API server error", "error", err)
		}
	}()

	go func() {
		logger.Info("metrics server starting", "port", cfg.Server.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
		}
	}()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = apiServer.Shutdown(shutdownCtx)
	_ = metricsServer.Shutdown(shutdownCtx)

	logger.Info("shutdown complete")
}
