package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"classlib-backend/internal/shared/middleware"
	"classlib-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(c.Config.App.CORSOrigins),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupItemRoutes(v1, c)
		setupBorrowerRoutes(v1, c)
		setupImportRoutes(v1, c)
	}

	return router
}

// ========================================
// ITEM ROUTES
// ========================================
func setupItemRoutes(v1 *gin.RouterGroup, c *container.Container) {
	items := v1.Group("/items")
	{
		items.GET("", c.ItemHandler.ListItems)
		items.GET("/export", c.ItemHandler.ExportItems)
		items.GET("/:id", c.ItemHandler.GetItem)
		items.GET("/:id/history", c.CirculationHandler.ItemHistory)
		items.POST("/:id/checkout", c.CirculationHandler.CheckOut)
		items.POST("/:id/return", c.CirculationHandler.Return)
	}
}

// ========================================
// BORROWER ROUTES
// ========================================
func setupBorrowerRoutes(v1 *gin.RouterGroup, c *container.Container) {
	v1.GET("/borrowers", c.BorrowerHandler.GetRoster)
}

// ========================================
// IMPORT ROUTES
// ========================================
func setupImportRoutes(v1 *gin.RouterGroup, c *container.Container) {
	imports := v1.Group("/imports")
	{
		imports.POST("", c.ImportHandler.CreateImport)
		imports.GET("", c.ImportHandler.ListImports)
		imports.GET("/:id", c.ImportHandler.GetImport)
	}
}

// ========================================
// HEALTH CHECK
// ========================================
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		services, healthy := appCtx.HealthCheck(ctx)

		status, code := "ok", http.StatusOK
		if !healthy {
			status, code = "degraded", http.StatusServiceUnavailable
		}

		c.JSON(code, gin.H{
			"status":    status,
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
			"services":  services,
		})
	}
}
