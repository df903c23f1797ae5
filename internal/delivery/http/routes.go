package http

import (
	"github.com/gin-gonic/gin"

	"github.com/pricelens/backend/config"
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
	router.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// HTML dashboard
	router.GET("/", handler.Dashboard)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		products := v1.Group("/products")
		{
			products.GET("", handler.ListProducts)
			products.POST("", handler.AddProduct)
			products.DELETE("/:id", handler.DeleteProduct)
		}

		settings := v1.Group("/settings")
		{
			settings.GET("/alerts", handler.GetAlerts)
			settings.PUT("/alerts", handler.SetAlerts)
		}

		prices := v1.Group("/prices")
		{
			prices.GET("", handler.GetPrices)
			prices.GET("/latest", handler.GetLatestPrices)
			prices.GET("/export", handler.ExportPrices)
		}
	}

	return router
}
