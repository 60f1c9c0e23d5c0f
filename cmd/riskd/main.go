package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	httpadapter "github.com/couchcryptid/tpa-methane-risk/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/tpa-methane-risk/internal/adapter/kafka"
	"github.com/couchcryptid/tpa-methane-risk/internal/adapter/sqlite"
	"github.com/couchcryptid/tpa-methane-risk/internal/app"
	"github.com/couchcryptid/tpa-methane-risk/internal/bulletin"
	"github.com/couchcryptid/tpa-methane-risk/internal/config"
	"github.com/couchcryptid/tpa-methane-risk/internal/observability"
	"github.com/couchcryptid/tpa-methane-risk/internal/pipeline"
)

func main() {
	// A missing .env file is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to read .env file", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, err := app.Load(cfg, metrics, logger)
	if err != nil {
		logger.Error("failed to load historical data", "error", err)
		os.Exit(1)
	}

	var (
		store  *sqlite.Store
		checks readiness
		deps   = httpadapter.Deps{
			Assessor:       svc.Assessor,
			Waste:          svc.Waste,
			Production:     svc.Production,
			Metrics:        metrics,
			DefaultHorizon: cfg.ProjectionHorizon,
		}
		saver pipeline.AssessmentSaver
	)
	if svc.WasteModel != nil {
		deps.WasteModel = svc.WasteModel
	}
	if svc.TemperatureModel != nil {
		deps.TemperatureModel = svc.TemperatureModel
	}
	if cfg.SQLitePath != "" {
		store, err = sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			logger.Error("failed to open assessment store", "path", cfg.SQLitePath, "error", err)
			os.Exit(1)
		}
		deps.Store = store
		saver = store
		checks = append(checks, store)
		if counts, err := store.CountByRisk(ctx); err == nil {
			logger.Info("assessment history enabled", "path", cfg.SQLitePath, "by_risk", counts)
		}
	} else {
		logger.Info("assessment history disabled")
	}

	var (
		p      *pipeline.Pipeline
		reader *kafkaadapter.Reader
		writer *kafkaadapter.Writer
	)
	if cfg.KafkaEnabled {
		reader = kafkaadapter.NewReader(cfg, logger)
		writer = kafkaadapter.NewWriter(cfg, logger)
		transformer := pipeline.NewTransformer(svc.Assessor, saver, metrics, logger)
		p = pipeline.New(reader, transformer, writer, logger, metrics, cfg.BatchSize)
		checks = append(checks, p)
		logger.Info("kafka query pipeline enabled",
			"source", cfg.KafkaSourceTopic, "sink", cfg.KafkaSinkTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("kafka query pipeline disabled")
	}

	var daily *bulletin.Bulletin
	if cfg.DailyAssessmentSchedule != "" {
		var bs bulletin.Saver
		if store != nil {
			bs = store
		}
		daily = bulletin.New(svc.Assessor, bs, metrics, logger)
		if err := daily.Schedule(cfg.DailyAssessmentSchedule); err != nil {
			logger.Error("failed to schedule daily assessment", "error", err)
			os.Exit(1)
		}
		daily.Start()
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, deps, checks, logger)

	go func() {
		logger.Info("http server listening", "addr", cfg.HTTPAddr)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	if p != nil {
		go func() {
			if err := p.Run(ctx); err != nil {
				logger.Error("pipeline error", "error", err)
			}
		}()
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if daily != nil {
		if err := daily.Stop(shutdownCtx); err != nil {
			logger.Error("daily assessment stop error", "error", err)
		}
	}
	if reader != nil {
		if err := reader.Close(); err != nil {
			logger.Error("kafka reader close error", "error", err)
		}
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}
	if store != nil {
		if err := store.Close(); err != nil {
			logger.Error("assessment store close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

// readiness is ready only when every component is.
type readiness []interface {
	CheckReadiness(ctx context.Context) error
}

func (r readiness) CheckReadiness(ctx context.Context) error {
	for _, c := range r {
		if err := c.CheckReadiness(ctx); err != nil {
			return err
		}
	}
	return nil
}
