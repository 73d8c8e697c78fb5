package middleware

import (
	"github.com/gin-gonic/gin"

	appctx "github.com/akashkatakam/vehicle-tracking-system/internal/core/context"
)

const (
	HeaderRequestID = "X-Request-ID"
	HeaderTraceID   = "X-Trace-ID"

	requestIDKey = "request_id"
)

// Trace takes X-Trace-ID and X-Request-ID from the caller, generating any
// that are missing, and echoes both back on the response.
func Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		tc := appctx.NewTraceContext(c.GetHeader(HeaderTraceID), c.GetHeader(HeaderRequestID))
		c.Request = c.Request.WithContext(appctx.WithTrace(c.Request.Context(), tc))
		c.Set(requestIDKey, tc.RequestID)

		c.Header(HeaderTraceID, tc.TraceID)
		c.Header(HeaderRequestID, tc.RequestID)
		c.Next()
	}
}
