package safetynet

import (
	"context"
	"time"

	"github.com/urbansight/urbansight/internal/config"
	"github.com/urbansight/urbansight/internal/infrastructure/artifact"
	"github.com/urbansight/urbansight/internal/infrastructure/monitoring/logging"
)

// FallbackScore is returned by Predict when the model artifact is not loaded.
const FallbackScore = 0.5

// Metrics is the subset of instrumentation the engine records.  A nil-safe
// no-op implementation is used when monitoring is disabled.
type Metrics interface {
	RecordPrediction(mode string, elapsed time.Duration)
}

type nopMetrics struct{}

func (nopMetrics) RecordPrediction(string, time.Duration) {}

// NewNopMetrics returns a Metrics implementation that discards observations.
func NewNopMetrics() Metrics { return nopMetrics{} }

// Engine evaluates the pre-trained safety regressor.  It is constructed once
// at startup and is immutable afterwards; whether the artifacts loaded is
// captured in the ready flag, not re-checked per call.
type Engine struct {
	model   *ModelArtifact
	scaler  *ScalerArtifact
	ready   bool
	logger  logging.Logger
	metrics Metrics
}

// NewEngine builds a ready engine from parsed artifacts.
func NewEngine(model *ModelArtifact, scaler *ScalerArtifact, logger logging.Logger, metrics Metrics) *Engine {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if metrics == nil {
		metrics = NewNopMetrics()
	}
	return &Engine{
		model:   model,
		scaler:  scaler,
		ready:   true,
		logger:  logger,
		metrics: metrics,
	}
}

// NewFallbackEngine builds an engine in permanent degraded mode: Predict
// returns FallbackScore and Explain reports that the model is not loaded.
func NewFallbackEngine(logger logging.Logger, metrics Metrics) *Engine {
	e := NewEngine(nil, nil, logger, metrics)
	e.ready = false
	return e
}

// Load fetches, parses, and validates both artifacts from src.  Any failure
// degrades to a fallback engine with a warning: an absent model must never
// prevent the service from starting or surface as a request error.
func Load(ctx context.Context, src artifact.Source, cfg config.ModelConfig, logger logging.Logger, metrics Metrics) *Engine {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	modelData, err := src.Fetch(ctx, cfg.ModelPath)
	if err != nil {
		logger.Warn("model artifact unavailable, scoring in fallback mode", logging.Err(err))
		return NewFallbackEngine(logger, metrics)
	}
	scalerData, err := src.Fetch(ctx, cfg.ScalerPath)
	if err != nil {
		logger.Warn("scaler artifact unavailable, scoring in fallback mode", logging.Err(err))
		return NewFallbackEngine(logger, metrics)
	}

	model, err := ParseModel(modelData)
	if err != nil {
		logger.Warn("model artifact rejected, scoring in fallback mode", logging.Err(err))
		return NewFallbackEngine(logger, metrics)
	}
	scaler, err := ParseScaler(scalerData)
	if err != nil {
		logger.Warn("scaler artifact rejected, scoring in fallback mode", logging.Err(err))
		return NewFallbackEngine(logger, metrics)
	}

	logger.Info("safety model loaded",
		logging.String("version", model.Version),
		logging.Int("trees", len(model.Trees)),
	)
	return NewEngine(model, scaler, logger, metrics)
}

// Ready reports whether the trained artifacts are loaded.  When false the
// engine serves fixed fallback values.
func (e *Engine) Ready() bool { return e.ready }

// Version returns the loaded model version, or "fallback" in degraded mode.
func (e *Engine) Version() string {
	if !e.ready {
		return "fallback"
	}
	return e.model.Version
}

// Predict returns the raw safety score for the (already resolved) features.
// The score is the regressor output and is not clamped here; callers clamp
// only where their contract requires it.  Predict never fails: in fallback
// mode it returns FallbackScore.
func (e *Engine) Predict(x [NumFeatures]float64) float64 {
	start := time.Now()

	if !e.ready {
		e.metrics.RecordPrediction("fallback", time.Since(start))
		return FallbackScore
	}

	scaled := e.scaler.Transform(x)
	sum := 0.0
	for i := range e.model.Trees {
		sum += e.model.Trees[i].Predict(scaled)
	}
	score := sum / float64(len(e.model.Trees))

	e.metrics.RecordPrediction("model", time.Since(start))
	return score
}
