package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader is the correlation header propagated from the frontend.
const RequestIDHeader = "X-Request-ID"

// RequestIDMiddleware assigns every request a correlation id, reusing the
// caller's when present so a frontend page load can be traced across the
// partition fetches it fans out into.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set(RequestIDHeader, id)
		c.Next()
	}
}
