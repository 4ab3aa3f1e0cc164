package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jobfit/backend/logger"
	"github.com/jobfit/backend/models"
)

// NotFound answers unknown routes
func NotFound(c *gin.Context) {
	logger.Warn().Str("url", c.Request.URL.String()).Msg("route not found")
	c.JSON(http.StatusNotFound, models.SimpleErrorResponse{
		Error: "The requested URL was not found on the server.",
	})
}

// MethodNotAllowed answers known routes called with the wrong method
func MethodNotAllowed(c *gin.Context) {
	logger.Warn().
		Str("method", c.Request.Method).
		Str("url", c.Request.URL.String()).
		Msg("method not allowed")
	c.JSON(http.StatusMethodNotAllowed, models.SimpleErrorResponse{
		Error: "The method is not allowed for the requested URL.",
	})
}

// Recovery turns panics into a JSON 500 and logs the request
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		logger.Error().
			Interface("panic", recovered).
			Str("method", c.Request.Method).
			Str("url", c.Request.URL.String()).
			Str("content_type", c.ContentType()).
			Msg("unexpected error")
		c.AbortWithStatusJSON(http.StatusInternalServerError, models.SimpleErrorResponse{
			Error: "An internal server error occurred.",
		})
	})
}
