package safetynet

import (
	"time"

	"github.com/urbansight/urbansight/internal/domain/safety"
)

// NumFeatures is the width of the model-facing feature vector.
const NumFeatures = 8

// FeatureNames is the canonical ordering of the model-facing fields.  Both
// artifacts are keyed to this order; every vector handed to the regressor is
// projected onto it.
var FeatureNames = [NumFeatures]string{
	"hour",
	"day_of_week",
	"lighting_score",
	"crowd_density",
	"historical_crime_index",
	"police_dist_km",
	"is_isolated",
	"near_transit",
}

// Resolve substitutes the wall-clock sentinels in f: Hour == -1 becomes
// now's hour and DayOfWeek == -1 becomes now's weekday with Monday = 0.
// No other validation or clamping happens here; out-of-range numeric inputs
// pass through to the model unchanged.
func Resolve(f safety.Features, now time.Time) safety.Features {
	if f.Hour == -1 {
		f.Hour = now.Hour()
	}
	if f.DayOfWeek == -1 {
		// time.Weekday counts Sunday=0; the schema counts Monday=0.
		f.DayOfWeek = (int(now.Weekday()) + 6) % 7
	}
	return f
}

// Vectorize projects f onto the canonical feature ordering.  Lat/Lng are
// geometry-only and never enter the vector.
func Vectorize(f safety.Features) [NumFeatures]float64 {
	return [NumFeatures]float64{
		float64(f.Hour),
		float64(f.DayOfWeek),
		f.LightingScore,
		f.CrowdDensity,
		f.HistoricalCrimeIndex,
		f.PoliceDistKm,
		float64(f.IsIsolated),
		float64(f.NearTransit),
	}
}
