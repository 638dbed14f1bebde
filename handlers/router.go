package handlers

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"mp3inspect/config"
	"mp3inspect/metrics"
)

// NewRouter wires the middleware and API routes.
func NewRouter(cfg *config.Config, log *logrus.Entry, h *InspectHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), RequestLogger(log))

	corsConfig := cors.DefaultConfig()
	if len(cfg.Server.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.Server.AllowedOrigins
		corsConfig.AllowCredentials = true
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", RequestIDHeader}
	corsConfig.ExposeHeaders = []string{RequestIDHeader, "Content-Disposition", "X-Excerpt-Duration", "X-Excerpt-Sample-Rate"}
	router.Use(cors.New(corsConfig))

	// API Routes
	api := router.Group("/api/v1")
	{
		api.GET("/health", h.HealthCheck)

		inspect := api.Group("/inspect")
		{
			inspect.POST("", h.Inspect)
			inspect.POST("/crosscheck", h.CrossCheck)
			inspect.POST("/excerpt", h.Excerpt)
		}
	}

	if cfg.Metrics.Enabled {
		router.GET(cfg.Metrics.Path, gin.WrapH(metrics.Handler()))
	}

	return router
}
