package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/urbansight/urbansight/internal/infrastructure/monitoring/logging"
	"github.com/urbansight/urbansight/pkg/errors"
)

// AnalyzeHandler scores and personalizes a single location.
type AnalyzeHandler struct {
	svc    Advisor
	logger logging.Logger
}

// NewAnalyzeHandler creates an AnalyzeHandler.
func NewAnalyzeHandler(svc Advisor, logger logging.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{svc: svc, logger: logger}
}

type analyzeRequest struct {
	Location *locationPayload `json:"location"`
	Profile  *profilePayload  `json:"profile"`
}

// Post handles POST /analyze.
func (h *AnalyzeHandler) Post(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, errors.Wrap(err, errors.CodeValidation, "malformed request body"))
		return
	}

	loc, err := req.Location.toFeatures()
	if err != nil {
		writeError(c, err)
		return
	}
	profile, err := req.Profile.toProfile()
	if err != nil {
		writeError(c, err)
		return
	}

	result := h.svc.Analyze(c.Request.Context(), loc, profile)
	c.JSON(http.StatusOK, result)
}
