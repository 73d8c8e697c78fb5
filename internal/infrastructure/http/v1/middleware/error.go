package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akashkatakam/vehicle-tracking-system/internal/core/apperror"
	"github.com/akashkatakam/vehicle-tracking-system/pkg/logger"
)

// ErrorHandler renders the last error a handler attached with c.Error as
// {code, message, details}. Server-side failures keep their cause in the log
// and return only the request ID.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err

		appErr, ok := apperror.AsAppError(err)
		if !ok {
			appErr = apperror.NewInternal(err)
		}
		if appErr.Err != nil {
			logger.Error(c.Request.Context(), "request failed",
				"code", appErr.Code,
				"cause", appErr.Err,
			)
		}

		if appErr.HTTPStatus >= http.StatusInternalServerError {
			abortInternal(c, appErr.HTTPStatus, appErr.Code, appErr.Message)
			return
		}
		c.JSON(appErr.HTTPStatus, gin.H{
			"code":    appErr.Code,
			"message": appErr.Message,
			"details": appErr.Details,
		})
	}
}

func abortInternal(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"code":    code,
		"message": message,
		"details": gin.H{"request_id": c.GetString(requestIDKey)},
	})
}
