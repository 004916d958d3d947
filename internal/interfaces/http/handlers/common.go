// Package handlers implements the HTTP request handlers of the advisory API.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/urbansight/urbansight/internal/application/advisor"
	"github.com/urbansight/urbansight/internal/domain/safety"
	"github.com/urbansight/urbansight/pkg/errors"
)

// Advisor is the application surface the handlers depend on.
type Advisor interface {
	Analyze(ctx context.Context, loc safety.Features, profile safety.Profile) advisor.AnalyzeResult
	PlanRoutes(ctx context.Context, origin, dest advisor.LatLng, profile safety.Profile) advisor.RoutePlan
	Heatmap(ctx context.Context, b advisor.Bounds, hour int) advisor.HeatmapResult
	ModelState() string
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError maps an application error onto an HTTP status.  Anything that is
// not a validation or not-found error is masked as a generic internal error.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case errors.IsValidation(err):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.IsNotFound(err):
		status = http.StatusNotFound
		message = err.Error()
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		Code:    errors.GetCode(err).String(),
		Message: message,
	})
}

// locationPayload mirrors safety.Features with pointer fields so that absent
// JSON keys are distinguishable from explicit zeros: absent fields fall back
// to the schema defaults, present ones override them.
type locationPayload struct {
	Lat                  *float64 `json:"lat"`
	Lng                  *float64 `json:"lng"`
	Hour                 *int     `json:"hour"`
	DayOfWeek            *int     `json:"day_of_week"`
	LightingScore        *float64 `json:"lighting_score"`
	CrowdDensity         *float64 `json:"crowd_density"`
	HistoricalCrimeIndex *float64 `json:"historical_crime_index"`
	PoliceDistKm         *float64 `json:"police_dist_km"`
	IsIsolated           *int     `json:"is_isolated"`
	NearTransit          *int     `json:"near_transit"`
}

func (p *locationPayload) toFeatures() (safety.Features, error) {
	f := safety.DefaultFeatures()
	if p == nil || p.Lat == nil || p.Lng == nil {
		return f, errors.Validation("location lat and lng are required")
	}

	f.Lat = *p.Lat
	f.Lng = *p.Lng
	if p.Hour != nil {
		f.Hour = *p.Hour
	}
	if p.DayOfWeek != nil {
		f.DayOfWeek = *p.DayOfWeek
	}
	if p.LightingScore != nil {
		f.LightingScore = *p.LightingScore
	}
	if p.CrowdDensity != nil {
		f.CrowdDensity = *p.CrowdDensity
	}
	if p.HistoricalCrimeIndex != nil {
		f.HistoricalCrimeIndex = *p.HistoricalCrimeIndex
	}
	if p.PoliceDistKm != nil {
		f.PoliceDistKm = *p.PoliceDistKm
	}
	if p.IsIsolated != nil {
		f.IsIsolated = *p.IsIsolated
	}
	if p.NearTransit != nil {
		f.NearTransit = *p.NearTransit
	}
	return f, nil
}

// profilePayload mirrors safety.Profile with pointer fields; an absent or
// empty profile resolves to the default lone daytime walker.
type profilePayload struct {
	Mode            *string `json:"mode"`
	GroupSize       *int    `json:"group_size"`
	IsNight         *bool   `json:"is_night"`
	GenderSensitive *bool   `json:"gender_sensitive"`
}

func (p *profilePayload) toProfile() (safety.Profile, error) {
	prof := safety.DefaultProfile()
	if p == nil {
		return prof, nil
	}

	if p.Mode != nil {
		prof.Mode = *p.Mode
	}
	if p.GroupSize != nil {
		if *p.GroupSize < 1 {
			return prof, errors.Validation("profile group_size must be at least 1")
		}
		prof.GroupSize = *p.GroupSize
	}
	if p.IsNight != nil {
		prof.IsNight = *p.IsNight
	}
	if p.GenderSensitive != nil {
		prof.GenderSensitive = *p.GenderSensitive
	}
	return prof, nil
}

// pointPayload is a bare coordinate pair with required fields.
type pointPayload struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

func (p *pointPayload) toLatLng(name string) (advisor.LatLng, error) {
	if p == nil || p.Lat == nil || p.Lng == nil {
		return advisor.LatLng{}, errors.Validation(name + " lat and lng are required")
	}
	return advisor.LatLng{Lat: *p.Lat, Lng: *p.Lng}, nil
}
