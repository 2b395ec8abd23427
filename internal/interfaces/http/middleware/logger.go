package middleware

import (
	"time"

	"github.com/TRAPZZY/AGRO--007-sub000/pkg/logger"
	"github.com/gin-gonic/gin"
)

// LoggerMiddleware logs HTTP requests using the structured logger
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		// the query string is left out since the websocket route carries the token there
		logger.LogRequest(c.Request.Context(), c.Request.Method, path, c.Writer.Status(), time.Since(start), c.ClientIP())
	}
}
