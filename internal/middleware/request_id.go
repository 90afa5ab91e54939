package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dmehra2102/prod-golang-projects/storefront/internal/apierror"
)

const RequestIDHeader = "X-Request-ID"

const maxRequestIDLength = 64

// RequestIDs propagates the caller's X-Request-ID or generates one, and
// echoes it on the response.
func RequestIDs() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > maxRequestIDLength {
			id = uuid.NewString()
		}
		c.Set(apierror.RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func RequestID(c *gin.Context) string {
	return c.GetString(apierror.RequestIDKey)
}
