package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/urbansight/urbansight/internal/infrastructure/monitoring/logging"
	"github.com/urbansight/urbansight/pkg/errors"
)

// RouteHandler plans and ranks route candidates between two points.
type RouteHandler struct {
	svc    Advisor
	logger logging.Logger
}

// NewRouteHandler creates a RouteHandler.
func NewRouteHandler(svc Advisor, logger logging.Logger) *RouteHandler {
	return &RouteHandler{svc: svc, logger: logger}
}

type routeRequest struct {
	Origin      *pointPayload   `json:"origin"`
	Destination *pointPayload   `json:"destination"`
	Profile     *profilePayload `json:"profile"`
}

// Post handles POST /route.
func (h *RouteHandler) Post(c *gin.Context) {
	var req routeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, errors.Wrap(err, errors.CodeValidation, "malformed request body"))
		return
	}

	origin, err := req.Origin.toLatLng("origin")
	if err != nil {
		writeError(c, err)
		return
	}
	dest, err := req.Destination.toLatLng("destination")
	if err != nil {
		writeError(c, err)
		return
	}
	profile, err := req.Profile.toProfile()
	if err != nil {
		writeError(c, err)
		return
	}

	plan := h.svc.PlanRoutes(c.Request.Context(), origin, dest, profile)
	c.JSON(http.StatusOK, plan)
}
