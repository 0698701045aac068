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

	"github.com/MirandaEdu/Tally/internal/api"
	"github.com/MirandaEdu/Tally/internal/config"
	"github.com/MirandaEdu/Tally/internal/engine"
	"github.com/MirandaEdu/Tally/internal/events"
	"github.com/MirandaEdu/Tally/internal/oracle"
	"github.com/MirandaEdu/Tally/internal/store"
	"github.com/MirandaEdu/Tally/internal/subjects"
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

	// Subject metadata table
	table, err := subjects.Load(cfg.Subjects.TablePath)
	if err != nil {
		logger.Error("failed to load subject table", "error", err)
		os.Exit(1)
	}
	logger.Info("subject table loaded", "subjects", table.Len())

	// Database
	db, err := store.NewPostgresStore(ctx, cfg.Database.URL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	logger.Info("connected to database")

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

	// Scaling oracle
	var scaler engine.Scaler
	switch cfg.Oracle.Mode {
	case "http":
		scaler = oracle.Instrument(oracle.NewHTTPClient(cfg.Oracle.URL, cfg.Oracle.Token))
		logger.Info("using remote scaling oracle", "url", cfg.Oracle.URL)
	default:
		scaler = oracle.Instrument(oracle.NewTableOracle(table))
		logger.Info("using table scaling oracle")
	}

	builder := engine.NewChartBuilder(scaler, table, logger)
	ranker := engine.NewRanker(scaler, table, logger)

	// Stats reporter
	var reporter *events.Reporter
	if eventsClient != nil {
		reporter = events.NewReporter(db, eventsClient, cfg.StatsInterval(), logger)
		reporter.Start(ctx)
		defer reporter.Stop()
		logger.Info("stats reporter started", "interval", cfg.StatsInterval())
	}

	// API server
	router := api.NewRouter(db, eventsClient, builder, ranker, table, cfg, logger)
	apiServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
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
