package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/urbansight/urbansight/internal/infrastructure/monitoring/logging"
)

// Recorder receives per-request throughput and latency observations.
type Recorder interface {
	RecordHTTPRequest(method, path, status string, elapsed time.Duration)
}

// RequestLogging logs one line per completed request and feeds the metrics
// recorder.  5xx responses log at Error, 4xx at Warn, the rest at Info.  The
// metrics path label uses the matched route pattern, not the raw URL, to keep
// label cardinality bounded.
func RequestLogging(logger logging.Logger, rec Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		if rec != nil {
			rec.RecordHTTPRequest(c.Request.Method, path, strconv.Itoa(status), elapsed)
		}

		fields := []logging.Field{
			logging.String("method", c.Request.Method),
			logging.String("path", c.Request.URL.Path),
			logging.Int("status", status),
			logging.Duration("elapsed", elapsed),
			logging.String("request_id", GetRequestID(c)),
		}
		switch {
		case status >= 500:
			logger.Error("request failed", fields...)
		case status >= 400:
			logger.Warn("request rejected", fields...)
		default:
			logger.Info("request completed", fields...)
		}
	}
}
