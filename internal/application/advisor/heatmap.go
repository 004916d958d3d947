package advisor

import (
	"context"

	"github.com/urbansight/urbansight/internal/domain/safety"
	"github.com/urbansight/urbansight/internal/intelligence/safetynet"
)

// gridSteps is the number of samples per axis of the heatmap grid.
const gridSteps = 10

// Bounds is the rectangular sampling area, inclusive of all four edges.
type Bounds struct {
	MinLat float64
	MaxLat float64
	MinLng float64
	MaxLng float64
}

// HeatPoint is one sampled grid cell.  The score is the raw model output;
// heatmaps carry no personalization and no explanation.
type HeatPoint struct {
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	SafetyScore float64 `json:"safety_score"`
	ColorCode   string  `json:"color_code"`
}

// HeatmapResult is the response of a heatmap request.
type HeatmapResult struct {
	Points []HeatPoint `json:"points"`
	Count  int         `json:"count"`
}

// linspace returns n evenly spaced values from lo to hi inclusive.
func linspace(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + step*float64(i)
	}
	// Pin the endpoint: accumulated float error must not move the last sample
	// off the requested bound.
	out[n-1] = hi
	return out
}

// Heatmap evaluates the raw safety model over a gridSteps×gridSteps grid in
// row-major order (outer loop latitude, inner loop longitude).  hour == -1
// resolves to the current hour, matching the feature schema sentinel.
func (s *Service) Heatmap(ctx context.Context, b Bounds, hour int) HeatmapResult {
	_ = ctx
	s.metrics.RecordHeatmap()

	now := s.now()
	base := safety.DefaultFeatures()
	base.Hour = hour
	base = safetynet.Resolve(base, now)

	lats := linspace(b.MinLat, b.MaxLat, gridSteps)
	lngs := linspace(b.MinLng, b.MaxLng, gridSteps)

	points := make([]HeatPoint, 0, gridSteps*gridSteps)
	for _, lat := range lats {
		for _, lng := range lngs {
			f := base
			f.Lat = lat
			f.Lng = lng

			score := s.engine.Predict(safetynet.Vectorize(f))
			_, color := safety.Categorize(score)

			points = append(points, HeatPoint{
				Lat:         lat,
				Lng:         lng,
				SafetyScore: safety.Round4(score),
				ColorCode:   color,
			})
		}
	}

	return HeatmapResult{Points: points, Count: len(points)}
}
