package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urbansight/urbansight/internal/application/advisor"
	"github.com/urbansight/urbansight/internal/intelligence/safetynet"
)

func newTestAdvisor(t *testing.T, loaded bool) Advisor {
	t.Helper()

	var engine *safetynet.Engine
	if loaded {
		model := &safetynet.ModelArtifact{
			Version:      "test",
			FeatureNames: safetynet.FeatureNames[:],
			Trees: []safetynet.Tree{{Nodes: []safetynet.TreeNode{
				{Feature: 2, Threshold: 5.0, Left: 1, Right: 2, Value: 0.5},
				{Feature: -1, Left: -1, Right: -1, Value: 0.3},
				{Feature: -1, Left: -1, Right: -1, Value: 0.8},
			}}},
		}
		scaler := &safetynet.ScalerArtifact{
			FeatureNames: safetynet.FeatureNames[:],
			Mean:         make([]float64, safetynet.NumFeatures),
			Std:          []float64{1, 1, 1, 1, 1, 1, 1, 1},
		}
		engine = safetynet.NewEngine(model, scaler, nil, nil)
	} else {
		engine = safetynet.NewFallbackEngine(nil, nil)
	}

	clock := func() time.Time { return time.Date(2024, 3, 13, 15, 0, 0, 0, time.UTC) }
	return advisor.NewService(engine, nil, advisor.WithClock(clock))
}

func newTestRouter(t *testing.T, loaded bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := newTestAdvisor(t, loaded)
	r := gin.New()
	r.GET("/health", NewHealthHandler(svc, "1.0.0").Get)
	r.POST("/analyze", NewAnalyzeHandler(svc, nil).Post)
	r.POST("/route", NewRouteHandler(svc, nil).Post)
	r.GET("/heatmap", NewHeatmapHandler(svc, nil).Get)
	return r
}

func doRequest(r *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthHandler_Loaded(t *testing.T) {
	w := doRequest(newTestRouter(t, true), http.MethodGet, "/health", "")

	require.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "loaded", resp.Model)
	assert.Equal(t, "1.0.0", resp.Version)
}

func TestHealthHandler_Fallback(t *testing.T) {
	w := doRequest(newTestRouter(t, false), http.MethodGet, "/health", "")

	require.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "fallback", resp.Model)
}

func TestAnalyzeHandler_Success(t *testing.T) {
	body := `{
		"location": {"lat": 12.97, "lng": 77.59, "hour": 21},
		"profile": {"mode": "walking", "group_size": 1, "is_night": true}
	}`
	w := doRequest(newTestRouter(t, true), http.MethodPost, "/analyze", body)

	require.Equal(t, http.StatusOK, w.Code)

	var resp advisor.AnalyzeResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0.3, resp.SafetyScore)
	assert.InDelta(t, 0.2025, resp.AdjustedScore, 1e-9)
	assert.Equal(t, []string{
		"Walking at night reduces safety score.",
		"Traveling alone at night reduces safety.",
	}, resp.AdjustmentsApplied)
	assert.NotEmpty(t, resp.Recommendations)
	assert.NotEmpty(t, resp.TopFeatures)
}

func TestAnalyzeHandler_DefaultsApplyWhenFieldsAbsent(t *testing.T) {
	body := `{"location": {"lat": 12.97, "lng": 77.59}}`
	w := doRequest(newTestRouter(t, true), http.MethodPost, "/analyze", body)

	require.Equal(t, http.StatusOK, w.Code)

	var resp advisor.AnalyzeResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	// Default lighting 5.0 routes to the low leaf; the default profile
	// triggers no adjustments.
	assert.Equal(t, 0.3, resp.SafetyScore)
	assert.Equal(t, 0.3, resp.AdjustedScore)
	assert.Empty(t, resp.AdjustmentsApplied)
}

func TestAnalyzeHandler_MissingLatIsRejected(t *testing.T) {
	body := `{"location": {"lng": 77.59}}`
	w := doRequest(newTestRouter(t, true), http.MethodPost, "/analyze", body)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "validation", resp.Code)
	assert.Contains(t, resp.Message, "lat")
}

func TestAnalyzeHandler_MalformedBody(t *testing.T) {
	w := doRequest(newTestRouter(t, true), http.MethodPost, "/analyze", "{not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyzeHandler_InvalidGroupSize(t *testing.T) {
	body := `{"location": {"lat": 1, "lng": 2}, "profile": {"group_size": 0}}`
	w := doRequest(newTestRouter(t, true), http.MethodPost, "/analyze", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouteHandler_Success(t *testing.T) {
	body := `{
		"origin": {"lat": 12.90, "lng": 77.50},
		"destination": {"lat": 13.10, "lng": 77.70}
	}`
	w := doRequest(newTestRouter(t, true), http.MethodPost, "/route", body)

	require.Equal(t, http.StatusOK, w.Code)

	var resp advisor.RoutePlan
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Routes, 3)
	assert.Equal(t, "Safest", resp.Routes[0].Name)
	assert.Equal(t, "Safest", resp.Recommended)
	assert.Len(t, resp.Routes[0].Waypoints, 5)
}

func TestRouteHandler_MissingDestination(t *testing.T) {
	body := `{"origin": {"lat": 12.90, "lng": 77.50}}`
	w := doRequest(newTestRouter(t, true), http.MethodPost, "/route", body)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Message, "destination")
}

func TestHeatmapHandler_Success(t *testing.T) {
	target := "/heatmap?min_lat=12.83&max_lat=13.14&min_lng=77.46&max_lng=77.78&hour=14"
	w := doRequest(newTestRouter(t, true), http.MethodGet, target, "")

	require.Equal(t, http.StatusOK, w.Code)

	var resp advisor.HeatmapResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 100, resp.Count)
	require.Len(t, resp.Points, 100)
	assert.Equal(t, 12.83, resp.Points[0].Lat)
	assert.Equal(t, 77.46, resp.Points[0].Lng)
}

func TestHeatmapHandler_MissingBound(t *testing.T) {
	w := doRequest(newTestRouter(t, true), http.MethodGet, "/heatmap?min_lat=12.83", "")

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Message, "max_lat")
}

func TestHeatmapHandler_InvertedBounds(t *testing.T) {
	target := "/heatmap?min_lat=13.14&max_lat=12.83&min_lng=77.46&max_lng=77.78"
	w := doRequest(newTestRouter(t, true), http.MethodGet, target, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHeatmapHandler_BadHour(t *testing.T) {
	target := "/heatmap?min_lat=12.83&max_lat=13.14&min_lng=77.46&max_lng=77.78&hour=noon"
	w := doRequest(newTestRouter(t, true), http.MethodGet, target, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
