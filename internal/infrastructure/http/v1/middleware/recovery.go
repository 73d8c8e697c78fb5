// Package middleware holds the gin middleware of the ledger API.
package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/akashkatakam/vehicle-tracking-system/internal/core/apperror"
	"github.com/akashkatakam/vehicle-tracking-system/pkg/logger"
)

// Recovery turns a handler panic into a 500 and logs the stack.
// It writes the response itself because the panic unwinds ErrorHandler.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			logger.Error(c.Request.Context(), "panic recovered",
				"panic", r,
				"route", c.FullPath(),
				"stack", string(debug.Stack()),
			)
			_ = c.Error(apperror.NewInternal(fmt.Errorf("panic: %v", r)))
			abortInternal(c, http.StatusInternalServerError, apperror.CodeInternal, "Internal server error")
		}()
		c.Next()
	}
}
