// Package http wires the advisory API onto a gin router and wraps it in a
// gracefully stoppable server.
package http

import (
	"github.com/gin-gonic/gin"

	"github.com/urbansight/urbansight/internal/config"
	"github.com/urbansight/urbansight/internal/infrastructure/monitoring/logging"
	"github.com/urbansight/urbansight/internal/infrastructure/monitoring/metrics"
	"github.com/urbansight/urbansight/internal/interfaces/http/handlers"
	"github.com/urbansight/urbansight/internal/interfaces/http/middleware"
)

// NewRouter assembles the full route table with its middleware chain.
// m may be nil, which disables metrics recording and the scrape endpoint.
func NewRouter(cfg *config.Config, svc handlers.Advisor, logger logging.Logger, m *metrics.Metrics) *gin.Engine {
	switch cfg.Server.Mode {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.CORS(cfg.Server.AllowedOrigins))

	var rec middleware.Recorder
	if m != nil {
		rec = m
	}
	r.Use(middleware.RequestLogging(logger, rec))

	r.GET("/health", handlers.NewHealthHandler(svc, config.Version).Get)
	r.POST("/analyze", handlers.NewAnalyzeHandler(svc, logger).Post)
	r.POST("/route", handlers.NewRouteHandler(svc, logger).Post)
	r.GET("/heatmap", handlers.NewHeatmapHandler(svc, logger).Get)

	if m != nil && cfg.Metrics.Enabled {
		r.GET(cfg.Metrics.Path, gin.WrapH(m.Handler()))
	}

	return r
}
