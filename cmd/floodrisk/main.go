package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/flood-elevation-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/flood-elevation-service/internal/adapter/kafka"
	"github.com/couchcryptid/flood-elevation-service/internal/config"
	"github.com/couchcryptid/flood-elevation-service/internal/domain"
	"github.com/couchcryptid/flood-elevation-service/internal/hazus"
	"github.com/couchcryptid/flood-elevation-service/internal/observability"
	"github.com/couchcryptid/flood-elevation-service/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// Damage table is optional; without it requests must carry inline curves.
	var curves domain.CurveSource
	if cfg.DamageTablePath != "" {
		table, err := hazus.Open(cfg.DamageTablePath, cfg.DamageTableSheet)
		if err != nil {
			logger.Error("failed to load damage table", "path", cfg.DamageTablePath, "error", err)
			os.Exit(1)
		}
		curves = hazus.NewCachedCurveSource(table, cfg.DamageCurveCacheSize, metrics.ObserveCurveCache)
		logger.Info("damage table loaded", "path", cfg.DamageTablePath, "curves", table.Len(), "cache_size", cfg.DamageCurveCacheSize)
	} else {
		logger.Info("no damage table configured, inline curves only")
	}

	reader := kafkaadapter.NewReader(cfg, logger)
	writer := kafkaadapter.NewWriter(cfg, logger)
	transformer := pipeline.NewEvaluationTransformer(curves, cfg.EADGrid, cfg.EvalWorkers, logger, metrics)

	p := pipeline.New(reader, transformer, writer, logger, metrics, cfg.BatchSize)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, transformer, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := reader.Close(); err != nil {
		logger.Error("kafka reader close error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}

	logger.Info("shutdown complete")
}
