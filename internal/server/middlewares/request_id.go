package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kubev2v/node-inspector/pkg/keystone"
)

// RequestID stores the caller's request id in the request context, generating
// one when absent, and echoes it back in the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(keystone.RequestIDHeader)
		if id == "" {
			id = "req-" + uuid.NewString()
		}

		c.Request = c.Request.WithContext(keystone.WithRequestID(c.Request.Context(), id))
		c.Header(keystone.RequestIDHeader, id)

		c.Next()
	}
}
