package api

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the ticket API on r.
func RegisterRoutes(r *gin.Engine, h *Handler) {
	api := r.Group("/api")
	{
		api.GET("/health", h.health)
		api.GET("/styles", h.styles)
		api.GET("/template/:style", h.template)
		api.GET("/template/:style/fields", h.fields)
		api.POST("/generate", h.generate)
		api.POST("/batch_generate", h.batchGenerate)
	}
}

// RequestLogger logs one line per request through logger.
func RequestLogger(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"took", time.Since(start),
		)
	}
}
