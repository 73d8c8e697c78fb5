package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/akashkatakam/vehicle-tracking-system/pkg/logger"
)

// Logger puts log into every request context and writes one access line per
// request. Server errors log at error level, client errors at warn, and
// health probes only at debug.
func Logger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Request = c.Request.WithContext(logger.WithLogger(c.Request.Context(), log))

		c.Next()

		status := c.Writer.Status()
		kv := []any{
			"method", c.Request.Method,
			"route", c.FullPath(),
			"path", c.Request.URL.Path,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"bytes", c.Writer.Size(),
			"client_ip", c.ClientIP(),
		}
		if errs := c.Errors.String(); errs != "" {
			kv = append(kv, "errors", errs)
		}

		ctx := c.Request.Context()
		switch {
		case status >= http.StatusInternalServerError:
			logger.Error(ctx, "http request", kv...)
		case status >= http.StatusBadRequest:
			logger.Warn(ctx, "http request", kv...)
		case strings.HasPrefix(c.Request.URL.Path, "/health"):
			logger.Debug(ctx, "http request", kv...)
		default:
			logger.Info(ctx, "http request", kv...)
		}
	}
}
