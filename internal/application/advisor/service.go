// Package advisor composes the scoring pipeline into the three request-level
// operations of the product: point analysis, route planning, and heatmap
// sampling.  Every operation is a pure function of its inputs plus the
// immutable loaded model; requests share no mutable state and are safe to
// run fully in parallel.
package advisor

import (
	"time"

	"github.com/urbansight/urbansight/internal/infrastructure/monitoring/logging"
	"github.com/urbansight/urbansight/internal/intelligence/safetynet"
)

// Metrics is the instrumentation the advisor records.
type Metrics interface {
	RecordRoute()
	RecordHeatmap()
}

type nopMetrics struct{}

func (nopMetrics) RecordRoute()   {}
func (nopMetrics) RecordHeatmap() {}

// NewNopMetrics returns a Metrics implementation that discards observations.
func NewNopMetrics() Metrics { return nopMetrics{} }

// Service is the advisory application service.  It owns no state beyond its
// injected, immutable collaborators.
type Service struct {
	engine  *safetynet.Engine
	logger  logging.Logger
	metrics Metrics

	// now is the wall-clock source used to resolve hour/day sentinels.
	// Injected so tests can pin time.
	now func() time.Time
}

// Option customises a Service.
type Option func(*Service)

// WithClock overrides the wall-clock source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithMetrics attaches instrumentation.
func WithMetrics(m Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService constructs the advisory service around a loaded (or fallback)
// scoring engine.
func NewService(engine *safetynet.Engine, logger logging.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	s := &Service{
		engine:  engine,
		logger:  logger,
		metrics: NewNopMetrics(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ModelState reports the health-endpoint view of the model: "loaded" or
// "fallback".
func (s *Service) ModelState() string {
	if s.engine.Ready() {
		return "loaded"
	}
	return "fallback"
}
