package http

import (
	"github.com/gin-gonic/gin"

	"github.com/shopscout/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))
	router.Use(TimeoutMiddleware(cfg.Server.RequestTimeout))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		similar := v1.Group("/similar")
		{
			similar.POST("/search", handler.SearchSimilar)
			similar.POST("/rank", handler.RankCandidates)
		}

		products := v1.Group("/products")
		{
			products.GET("/recent", handler.RecentProducts)
			products.POST("/recent", handler.AddRecentProduct)
		}
	}

	return router
}
