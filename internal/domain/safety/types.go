// Package safety defines the core domain types of the scoring pipeline:
// location features, traveler profiles, score categories, and the
// personalization rules that adjust a base score for a specific traveler.
package safety

import "math"

// Travel mode values recognised by the personalization rules.  Unknown modes
// are accepted and simply trigger no mode-specific rule.
const (
	ModeWalking = "walking"
	ModeCycling = "cycling"
	ModeDriving = "driving"
)

// Features carries the location signals evaluated by the safety model plus
// the coordinates they were observed at.  Lat/Lng are carried for geometry
// only; the model never sees them.
//
// Hour and DayOfWeek use -1 as a sentinel meaning "resolve from the current
// wall clock" (DayOfWeek is Monday=0).  All other fields have documented
// defaults applied by DefaultFeatures; out-of-range values are passed through
// to the model unchanged.
type Features struct {
	Lat                  float64 `json:"lat"`
	Lng                  float64 `json:"lng"`
	Hour                 int     `json:"hour"`
	DayOfWeek            int     `json:"day_of_week"`
	LightingScore        float64 `json:"lighting_score"`
	CrowdDensity         float64 `json:"crowd_density"`
	HistoricalCrimeIndex float64 `json:"historical_crime_index"`
	PoliceDistKm         float64 `json:"police_dist_km"`
	IsIsolated           int     `json:"is_isolated"`
	NearTransit          int     `json:"near_transit"`
}

// DefaultFeatures returns a Features value with every field at its documented
// default.  Request decoding starts from this value so that absent JSON
// fields keep their defaults rather than Go zero values.
func DefaultFeatures() Features {
	return Features{
		Hour:                 -1,
		DayOfWeek:            -1,
		LightingScore:        5.0,
		CrowdDensity:         0.5,
		HistoricalCrimeIndex: 0.3,
		PoliceDistKm:         1.5,
		IsIsolated:           0,
		NearTransit:          0,
	}
}

// Profile describes the traveler a score is personalized for.  Immutable per
// request.
type Profile struct {
	Mode            string `json:"mode"`
	GroupSize       int    `json:"group_size"`
	IsNight         bool   `json:"is_night"`
	GenderSensitive bool   `json:"gender_sensitive"`
}

// DefaultProfile returns the profile assumed when a request omits one:
// a lone walker in daytime.
func DefaultProfile() Profile {
	return Profile{Mode: ModeWalking, GroupSize: 1}
}

// Category is the coarse Low/Medium/High banding of a safety score.
type Category string

const (
	CategoryLow    Category = "Low"
	CategoryMedium Category = "Medium"
	CategoryHigh   Category = "High"
)

// Display colors keyed to the frontend palette.
const (
	ColorLow    = "#ef4444"
	ColorMedium = "#f97316"
	ColorHigh   = "#22c55e"
)

// Categorize bands a score into its category and display color.  The bands
// are mutually exclusive and exhaustive over the reals:
// score < 0.4 → Low, 0.4 ≤ score ≤ 0.7 → Medium, score > 0.7 → High.
func Categorize(score float64) (Category, string) {
	switch {
	case score < 0.4:
		return CategoryLow, ColorLow
	case score <= 0.7:
		return CategoryMedium, ColorMedium
	default:
		return CategoryHigh, ColorHigh
	}
}

// ScoreResult is the outcome of scoring and personalizing a single location.
type ScoreResult struct {
	RawScore           float64  `json:"raw_score"`
	AdjustedScore      float64  `json:"adjusted_score"`
	Category           Category `json:"category"`
	ColorCode          string   `json:"color_code"`
	AdjustmentsApplied []string `json:"adjustments_applied"`
}

// Round4 rounds to four decimal places, the precision every score is reported
// at.
func Round4(x float64) float64 {
	return math.Round(x*10000) / 10000
}
