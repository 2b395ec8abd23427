package middleware

import (
	"context"

	"github.com/TRAPZZY/AGRO--007-sub000/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIDKey    = "request_id"
	RequestIDHeader = "X-Request-ID"
)

// RequestIDMiddleware generates a unique ID for each request
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}

		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)

		// the logger reads the id from the request context
		ctx := context.WithValue(c.Request.Context(), logger.RequestIDKey, id)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
