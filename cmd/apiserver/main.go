// API server entry point for Urban Sight.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urbansight/urbansight/internal/application/advisor"
	"github.com/urbansight/urbansight/internal/config"
	"github.com/urbansight/urbansight/internal/infrastructure/artifact"
	"github.com/urbansight/urbansight/internal/infrastructure/monitoring/logging"
	"github.com/urbansight/urbansight/internal/infrastructure/monitoring/metrics"
	"github.com/urbansight/urbansight/internal/intelligence/safetynet"
	httpserver "github.com/urbansight/urbansight/internal/interfaces/http"
)

const defaultConfigPath = "configs/config.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: using default configuration: %v\n", err)
		cfg = config.NewDefaultConfig()
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}

	logger, err := logging.NewLogger(logging.Config(cfg.Log))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.Info("starting urban sight api server",
		logging.String("version", config.Version),
		logging.Int("port", cfg.Server.Port),
	)

	m := metrics.New()

	src, err := artifact.ForConfig(cfg, logger)
	if err != nil {
		logger.Warn("artifact source unavailable, running in fallback mode", logging.Err(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var engine *safetynet.Engine
	if src != nil {
		engine = safetynet.Load(ctx, src, cfg.Model, logger, m)
	} else {
		engine = safetynet.NewFallbackEngine(logger, m)
	}
	logger.Info("safety model initialized",
		logging.String("model_version", engine.Version()),
		logging.Bool("loaded", engine.Ready()),
	)

	svc := advisor.NewService(engine, logger, advisor.WithMetrics(m))

	router := httpserver.NewRouter(cfg, svc, logger, m)
	srv := httpserver.NewServer(cfg, router, logger)

	// Log config file edits; a changed model path takes effect on restart.
	config.Watch(*configPath, func(next *config.Config) {
		logger.Info("configuration file changed, restart to apply",
			logging.String("path", *configPath),
			logging.String("model_path", next.Model.ModelPath),
		)
	})

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			logger.Error("http server failed", logging.Err(err))
			os.Exit(1)
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", logging.Err(err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}
