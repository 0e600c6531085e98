package routes

import (
	"net/http"

	"cellular-usage-report/internal/config"
	"cellular-usage-report/internal/delivery/http/handler"
	"cellular-usage-report/internal/logger"
	"cellular-usage-report/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Dependencies are the services the HTTP surface needs.
type Dependencies struct {
	Reports     handler.ReportService
	Operators   handler.OperatorService
	RateLimiter *middleware.RateLimiter
	Health      func() error
}

func SetupRoutes(cfg *config.Config, deps Dependencies) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Order: recovery, request ID, logging, security headers, CORS, request size limit, rate limit
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(&cfg.CORS))
	router.Use(middleware.RequestSizeLimitMiddleware(middleware.DefaultMaxRequestSize))
	if deps.RateLimiter != nil {
		router.Use(middleware.RateLimitMiddleware(deps.RateLimiter))
	}

	router.GET("/health", func(c *gin.Context) {
		if deps.Health != nil {
			if err := deps.Health(); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":  "unhealthy",
					"message": "Database connection failed",
				})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Service is running",
		})
	})

	reportHandler := handler.NewReportHandler(deps.Reports)
	operatorHandler := handler.NewOperatorHandler(deps.Operators)

	v1 := router.Group("/api/v1")
	{
		operatorHandler.RegisterRoutes(v1)

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(cfg.JWT.Secret))
		{
			operatorHandler.RegisterProfileRoutes(protected)
			reportHandler.RegisterRoutes(protected)

			admin := protected.Group("/admin")
			admin.Use(middleware.AdminOnly())
			{
				operatorHandler.RegisterAdminRoutes(admin)
				reportHandler.RegisterAdminRoutes(admin)
			}
		}
	}

	logger.Info("All routes initialized")
	return router
}
