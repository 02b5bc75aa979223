package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"gestao-alunos-go/logger"
)

// RequestLogger logs every request through the structured logger
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.LogDebug("HTTP request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

// NewAPIRouter builds the REST API engine under /api, wrapped with CORS so
// a panel served from another origin can call it.
func NewAPIRouter(h *APIHandler) http.Handler {
	router := gin.New()
	router.Use(RequestLogger(), gin.Recovery())
	h.RegisterRoutes(router.Group("/api"))

	return cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(router)
}
