// Command stationclimate runs the station climate batch: it parses every
// station file in the input directory, aggregates daily records into seasonal
// statistics, resolves per-season climatological baselines, composes anomaly
// series, and exports the hand-off CSV tables.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/station-climate/internal/adapter/export"
	httpadapter "github.com/couchcryptid/station-climate/internal/adapter/http"
	"github.com/couchcryptid/station-climate/internal/adapter/localfs"
	"github.com/couchcryptid/station-climate/internal/analysis"
	"github.com/couchcryptid/station-climate/internal/config"
	"github.com/couchcryptid/station-climate/internal/observability"
	"github.com/couchcryptid/station-climate/internal/pipeline"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	metrics := observability.NewMetrics()

	source := localfs.New(cfg.Input.Dir, cfg.Input.Pattern)
	p := pipeline.New(source, analysis.BaselineConfig{
		ReferenceStart: cfg.Baseline.ReferenceStart,
		ReferenceEnd:   cfg.Baseline.ReferenceEnd,
		FallbackYears:  cfg.Baseline.FallbackYears,
	}, cfg.Pipeline.Workers, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Observability endpoints are optional for a batch run; an empty addr
	// disables them.
	var srv *httpadapter.Server
	if cfg.HTTP.Addr != "" {
		srv = httpadapter.NewServer(cfg.HTTP.Addr, p, p, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
			}
		}()
	}

	batch, err := p.Run(ctx)
	if err != nil {
		logger.Error("batch aborted", "error", err)
		shutdown(srv, cfg, logger)
		os.Exit(1)
	}

	for _, f := range batch.Failures {
		logger.Warn("station file failed", "file", f.File, "reason", f.Reason)
	}

	if cfg.Export.Enabled {
		writer := export.NewWriter(cfg.Export.Dir, logger)
		if err := writer.WriteBatch(batch); err != nil {
			logger.Error("export failed", "error", err)
			shutdown(srv, cfg, logger)
			os.Exit(1)
		}
		logger.Info("export complete", "dir", cfg.Export.Dir)
	}

	logger.Info("run complete",
		"stations", len(batch.Stations),
		"failures", len(batch.Failures),
	)
	shutdown(srv, cfg, logger)
}

func shutdown(srv *httpadapter.Server, cfg *config.Config, logger *slog.Logger) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
}
