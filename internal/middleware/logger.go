package middleware

import (
	"fmt"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/metrics"
)

// RequestLogger tags every request with an ID, logs it once finished and
// counts it by route template.
func RequestLogger(logger *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		rid := c.GetHeader("X-Request-ID")
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(ContextRequestID, rid)
		c.Header("X-Request-ID", rid)

		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.IncHTTP(route, strconv.Itoa(status))

		evt := logger.Info()
		switch {
		case len(c.Errors) > 0:
			evt = logger.Error().Err(c.Errors.Last())
		case status >= http.StatusInternalServerError:
			evt = logger.Error()
		}

		if salonID, ok := c.Get(ContextSalonID); ok {
			evt = evt.Interface("salon_id", salonID)
		}

		evt.
			Str("request_id", rid).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("remote_ip", c.ClientIP()).
			Msg("request")
	}
}

func Recovery(logger *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				var stack [4096]byte
				n := runtime.Stack(stack[:], false)

				logger.Error().
					Str("request_id", c.GetString(ContextRequestID)).
					Str("panic", fmt.Sprintf("%v", r)).
					Str("stack", string(stack[:n])).
					Msg("panic recovered")

				c.Abort()
				httperr.Internal(c, "internal_error", "Internal server error.")
			}
		}()
		c.Next()
	}
}
