package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/urbansight/urbansight/internal/application/advisor"
	"github.com/urbansight/urbansight/internal/infrastructure/monitoring/logging"
	"github.com/urbansight/urbansight/pkg/errors"
)

// HeatmapHandler samples the raw model over a rectangular grid.
type HeatmapHandler struct {
	svc    Advisor
	logger logging.Logger
}

// NewHeatmapHandler creates a HeatmapHandler.
func NewHeatmapHandler(svc Advisor, logger logging.Logger) *HeatmapHandler {
	return &HeatmapHandler{svc: svc, logger: logger}
}

func queryFloat(c *gin.Context, name string) (float64, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, errors.Validation("query parameter " + name + " is required")
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.Validation("query parameter " + name + " must be a number")
	}
	return v, nil
}

// Get handles GET /heatmap.  The four bounds are required; hour is optional
// and defaults to the current-hour sentinel.
func (h *HeatmapHandler) Get(c *gin.Context) {
	var b advisor.Bounds
	var err error

	if b.MinLat, err = queryFloat(c, "min_lat"); err != nil {
		writeError(c, err)
		return
	}
	if b.MaxLat, err = queryFloat(c, "max_lat"); err != nil {
		writeError(c, err)
		return
	}
	if b.MinLng, err = queryFloat(c, "min_lng"); err != nil {
		writeError(c, err)
		return
	}
	if b.MaxLng, err = queryFloat(c, "max_lng"); err != nil {
		writeError(c, err)
		return
	}
	if b.MinLat > b.MaxLat || b.MinLng > b.MaxLng {
		writeError(c, errors.Validation("bounds must satisfy min_lat <= max_lat and min_lng <= max_lng"))
		return
	}

	hour := -1
	if raw := c.Query("hour"); raw != "" {
		hour, err = strconv.Atoi(raw)
		if err != nil {
			writeError(c, errors.Validation("query parameter hour must be an integer"))
			return
		}
	}

	result := h.svc.Heatmap(c.Request.Context(), b, hour)
	c.JSON(http.StatusOK, result)
}
