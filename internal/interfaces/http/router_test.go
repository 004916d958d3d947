package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urbansight/urbansight/internal/application/advisor"
	"github.com/urbansight/urbansight/internal/config"
	"github.com/urbansight/urbansight/internal/infrastructure/monitoring/metrics"
	"github.com/urbansight/urbansight/internal/intelligence/safetynet"
)

func newTestRouterSetup(t *testing.T) (*config.Config, http.Handler) {
	t.Helper()

	cfg := config.NewDefaultConfig()
	cfg.Server.Mode = "test"

	svc := advisor.NewService(safetynet.NewFallbackEngine(nil, nil), nil)
	router := NewRouter(cfg, svc, nil, metrics.New())
	return cfg, router
}

func TestNewRouter_Routes(t *testing.T) {
	_, router := newTestRouterSetup(t)

	tests := []struct {
		method string
		target string
		status int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/heatmap", http.StatusBadRequest},
		{http.MethodGet, "/nope", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(tt.method, tt.target, nil))
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestNewRouter_MetricsDisabled(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Server.Mode = "test"
	cfg.Metrics.Enabled = false

	svc := advisor.NewService(safetynet.NewFallbackEngine(nil, nil), nil)
	router := NewRouter(cfg, svc, nil, metrics.New())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNewRouter_CORSPreflight(t *testing.T) {
	_, router := newTestRouterSetup(t)

	req := httptest.NewRequest(http.MethodOptions, "/analyze", nil)
	req.Header.Set("Origin", "https://app.example.com")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestNewRouter_RequestIDOnResponses(t *testing.T) {
	_, router := newTestRouterSetup(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
