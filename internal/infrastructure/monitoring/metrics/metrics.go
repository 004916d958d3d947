// Package metrics defines the Prometheus instrumentation for the scoring
// pipeline and the HTTP surface.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every collector registered by the application.  A single
// instance is created at startup and injected into the components that
// record observations.
type Metrics struct {
	registry *prometheus.Registry

	// PredictionsTotal counts model evaluations, labelled by mode
	// ("model" when the artifact is loaded, "fallback" otherwise).
	PredictionsTotal *prometheus.CounterVec

	// PredictionDuration observes single-prediction latency in seconds.
	PredictionDuration prometheus.Histogram

	// RouteRequestsTotal counts /route evaluations.
	RouteRequestsTotal prometheus.Counter

	// HeatmapRequestsTotal counts /heatmap evaluations.
	HeatmapRequestsTotal prometheus.Counter

	// HTTPRequestsTotal counts HTTP requests by method, path, and status.
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration observes HTTP request latency by method and path.
	HTTPRequestDuration *prometheus.HistogramVec
}

var httpDurationBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5}

// New registers all application collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		PredictionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "urbansight_predictions_total",
			Help: "Total safety-model evaluations.",
		}, []string{"mode"}),
		PredictionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "urbansight_prediction_duration_seconds",
			Help:    "Latency of a single safety-model evaluation.",
			Buckets: prometheus.DefBuckets,
		}),
		RouteRequestsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "urbansight_route_requests_total",
			Help: "Total route synthesis requests.",
		}),
		HeatmapRequestsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "urbansight_heatmap_requests_total",
			Help: "Total heatmap grid evaluations.",
		}),
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "urbansight_http_requests_total",
			Help: "Total HTTP requests.",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "urbansight_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: httpDurationBuckets,
		}, []string{"method", "path"}),
	}

	reg.MustRegister(
		m.PredictionsTotal,
		m.PredictionDuration,
		m.RouteRequestsTotal,
		m.HeatmapRequestsTotal,
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
	)

	return m
}

// Handler returns the HTTP handler serving the registry in the Prometheus
// exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordPrediction satisfies the model engine's metrics contract.
func (m *Metrics) RecordPrediction(mode string, elapsed time.Duration) {
	m.PredictionsTotal.WithLabelValues(mode).Inc()
	m.PredictionDuration.Observe(elapsed.Seconds())
}

// RecordRoute counts one route synthesis request.
func (m *Metrics) RecordRoute() { m.RouteRequestsTotal.Inc() }

// RecordHeatmap counts one heatmap grid evaluation.
func (m *Metrics) RecordHeatmap() { m.HeatmapRequestsTotal.Inc() }

// RecordHTTPRequest counts one completed HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path, status string, elapsed time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}
