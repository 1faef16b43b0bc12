package middleware

import (
	"time"

	"climatesolutions/logger"
	"climatesolutions/metrics"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// RequestLogger tags each request with an id, logs it once finished and
// reports it to rec when rec is not nil.
func RequestLogger(rec metrics.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		switch {
		case status >= 500:
			logger.Errorf("%s %s %s %d %s", id, c.Request.Method, c.Request.URL.Path, status, latency)
		case status >= 400:
			logger.Warningf("%s %s %s %d %s", id, c.Request.Method, c.Request.URL.Path, status, latency)
		default:
			logger.Debugf("%s %s %s %d %s", id, c.Request.Method, c.Request.URL.Path, status, latency)
		}

		if rec != nil {
			rec.RecordRequest(c.Request.Method, c.FullPath(), status, latency)
		}
	}
}
