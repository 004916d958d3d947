package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports process liveness and the model load state.
type HealthHandler struct {
	svc     Advisor
	version string
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(svc Advisor, version string) *HealthHandler {
	return &HealthHandler{svc: svc, version: version}
}

// HealthResponse is the /health response body.  Model is "loaded" or
// "fallback"; the service stays healthy in fallback mode.
type HealthResponse struct {
	Status  string `json:"status"`
	Model   string `json:"model"`
	Version string `json:"version"`
}

// Get handles GET /health.
func (h *HealthHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "ok",
		Model:   h.svc.ModelState(),
		Version: h.version,
	})
}
