package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	appctx "github.com/akashkatakam/vehicle-tracking-system/internal/core/context"
)

const (
	HeaderOperator = "X-Operator"
	HeaderBranch   = "X-Branch"
)

// Operator puts the caller-asserted operator and branch into the request
// context. Nothing is verified; requests without the headers run anonymously.
func Operator() gin.HandlerFunc {
	return func(c *gin.Context) {
		op := &appctx.Operator{
			Username: strings.TrimSpace(c.GetHeader(HeaderOperator)),
			BranchID: strings.TrimSpace(c.GetHeader(HeaderBranch)),
		}
		if op.Username != "" || op.BranchID != "" {
			c.Request = c.Request.WithContext(appctx.WithOperator(c.Request.Context(), op))
		}
		c.Next()
	}
}
