package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/storefront/internal/apierror"
)

// Recovery turns a panic into the generic 500 response.
func Recovery(log *zap.Logger, builder *apierror.Builder) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic recovered",
					zap.Any("panic", r),
					zap.String("path", c.Request.URL.Path),
					zap.String("request_id", RequestID(c)),
					zap.Stack("stack"),
				)
				builder.Internal("Internal server error", fmt.Errorf("panic: %v", r)).Respond(c)
			}
		}()
		c.Next()
	}
}
