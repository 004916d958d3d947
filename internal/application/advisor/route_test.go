package advisor

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urbansight/urbansight/internal/domain/safety"
)

func TestSynthesizeWaypoints_OriginEqualsDestination(t *testing.T) {
	p := LatLng{Lat: 12.97, Lng: 77.59}

	for _, rp := range routeProfiles {
		t.Run(rp.name, func(t *testing.T) {
			waypoints := synthesizeWaypoints(p, p, rp.detour)

			require.Len(t, waypoints, numWaypoints)
			for _, wp := range waypoints {
				assert.Equal(t, p, wp)
			}
		})
	}
}

func TestSynthesizeWaypoints_ZeroDetourIsCollinear(t *testing.T) {
	origin := LatLng{Lat: 12.90, Lng: 77.50}
	dest := LatLng{Lat: 13.10, Lng: 77.70}

	waypoints := synthesizeWaypoints(origin, dest, 0)

	require.Len(t, waypoints, numWaypoints)
	assert.Equal(t, origin, waypoints[0])
	assert.Equal(t, dest, waypoints[numWaypoints-1])

	for i, wp := range waypoints {
		frac := float64(i) / float64(numWaypoints-1)
		assert.InDelta(t, origin.Lat+(dest.Lat-origin.Lat)*frac, wp.Lat, 1e-12)
		assert.InDelta(t, origin.Lng+(dest.Lng-origin.Lng)*frac, wp.Lng, 1e-12)
	}
}

func TestSynthesizeWaypoints_BowEnvelope(t *testing.T) {
	origin := LatLng{Lat: 12.90, Lng: 77.50}
	dest := LatLng{Lat: 13.10, Lng: 77.70}

	waypoints := synthesizeWaypoints(origin, dest, 0.01)
	straight := synthesizeWaypoints(origin, dest, 0)

	// Endpoints stay pinned, the midpoint carries the full detour.
	assert.Equal(t, straight[0], waypoints[0])
	assert.Equal(t, straight[numWaypoints-1], waypoints[numWaypoints-1])

	midOffset := math.Hypot(
		waypoints[2].Lat-straight[2].Lat,
		waypoints[2].Lng-straight[2].Lng,
	)
	assert.InDelta(t, 0.01, midOffset, 1e-9)
}

func TestRouteAggregates_Formulas(t *testing.T) {
	scores := []float64{0.2, 0.5, 0.6, 0.7, 0.9}

	byName := map[string]func([]float64) float64{}
	for _, rp := range routeProfiles {
		byName[rp.name] = rp.aggregate
	}

	// Safest drops the two lowest: (0.6+0.7+0.9)/3 × 1.05 = 0.77.
	assert.InDelta(t, 0.77, byName["Safest"](scores), 1e-9)
	// Fastest and Comfortable penalise the plain mean of 0.58.
	assert.InDelta(t, 0.5104, byName["Fastest"](scores), 1e-9)
	assert.InDelta(t, 0.551, byName["Comfortable"](scores), 1e-9)
}

func TestRouteAggregates_SafestCappedAtOne(t *testing.T) {
	scores := []float64{1, 1, 1, 1, 1}
	assert.Equal(t, 1.0, routeProfiles[0].aggregate(scores))
}

func TestEstimatedMinutes(t *testing.T) {
	origin := LatLng{Lat: 12.90, Lng: 77.50}
	dest := LatLng{Lat: 13.10, Lng: 77.70}

	base := estimatedMinutes(origin, dest, 0)
	assert.GreaterOrEqual(t, base, etaBaseMinutes)
	assert.Less(t, base, 2*etaBaseMinutes)

	// Deterministic, and per-profile offsets are additive on the same seed.
	assert.Equal(t, base, estimatedMinutes(origin, dest, 0))
	assert.Equal(t, base+5, estimatedMinutes(origin, dest, 5))
	assert.Equal(t, base+2, estimatedMinutes(origin, dest, 2))
}

func TestEstimatedMinutes_NegativeCoordinates(t *testing.T) {
	origin := LatLng{Lat: -33.87, Lng: -151.21}
	dest := LatLng{Lat: -33.91, Lng: -151.25}

	got := estimatedMinutes(origin, dest, 0)
	assert.GreaterOrEqual(t, got, etaBaseMinutes)
	assert.Less(t, got, 2*etaBaseMinutes)
}

func TestPlanRoutes_OrderAndRecommendation(t *testing.T) {
	svc := newTestService(t)

	origin := LatLng{Lat: 12.90, Lng: 77.50}
	dest := LatLng{Lat: 13.10, Lng: 77.70}

	plan := svc.PlanRoutes(context.Background(), origin, dest, safety.DefaultProfile())

	require.Len(t, plan.Routes, 3)
	assert.Equal(t, "Safest", plan.Routes[0].Name)
	assert.Equal(t, "Fastest", plan.Routes[1].Name)
	assert.Equal(t, "Comfortable", plan.Routes[2].Name)
	assert.Equal(t, "Safest", plan.Recommended)

	for _, route := range plan.Routes {
		assert.Len(t, route.Waypoints, numWaypoints)
		assert.GreaterOrEqual(t, route.AvgSafetyScore, 0.0)
		assert.LessOrEqual(t, route.AvgSafetyScore, 1.0)
		assert.GreaterOrEqual(t, route.EstimatedMinutes, etaBaseMinutes)

		wantCategory, wantColor := safety.Categorize(route.AvgSafetyScore)
		assert.Equal(t, wantCategory, route.Category)
		assert.Equal(t, wantColor, route.ColorCode)

		pct := int(math.Round(route.AvgSafetyScore * 100))
		assert.Contains(t, route.Explanation, fmt.Sprintf("Safety score: %d%%.", pct))
		assert.Contains(t, route.Explanation, fmt.Sprintf("%d", route.RiskZoneCount))
	}

	// Per-profile ETA offsets on a shared base estimate.
	assert.Equal(t, plan.Routes[1].EstimatedMinutes+5, plan.Routes[0].EstimatedMinutes)
	assert.Equal(t, plan.Routes[1].EstimatedMinutes+2, plan.Routes[2].EstimatedMinutes)
}

func TestPlanRoutes_FallbackScoring(t *testing.T) {
	svc := newFallbackService(t)

	origin := LatLng{Lat: 12.90, Lng: 77.50}
	dest := LatLng{Lat: 13.10, Lng: 77.70}

	plan := svc.PlanRoutes(context.Background(), origin, dest, safety.DefaultProfile())

	require.Len(t, plan.Routes, 3)
	// Every waypoint scores the fallback 0.5, so the aggregates are the
	// profile multipliers applied to 0.5.
	assert.InDelta(t, 0.525, plan.Routes[0].AvgSafetyScore, 1e-9)
	assert.InDelta(t, 0.44, plan.Routes[1].AvgSafetyScore, 1e-9)
	assert.InDelta(t, 0.475, plan.Routes[2].AvgSafetyScore, 1e-9)
	for _, route := range plan.Routes {
		assert.Zero(t, route.RiskZoneCount)
	}
}

func TestPlanRoutes_Idempotent(t *testing.T) {
	svc := newTestService(t)

	origin := LatLng{Lat: 12.90, Lng: 77.50}
	dest := LatLng{Lat: 13.10, Lng: 77.70}
	profile := safety.Profile{Mode: safety.ModeWalking, GroupSize: 1, IsNight: true}

	first := svc.PlanRoutes(context.Background(), origin, dest, profile)
	second := svc.PlanRoutes(context.Background(), origin, dest, profile)

	assert.Equal(t, first, second)
}
