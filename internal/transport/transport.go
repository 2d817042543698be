package transport

import (
	"time"

	"github.com/ds124wfegd/filterbench/internal/transport/middleware"
	"github.com/gin-gonic/gin"
)

func InitRoutes(handler *Handler, requestTimeout time.Duration) *gin.Engine {
	router := gin.New()

	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.Timeout(requestTimeout))

	api := router.Group("/api/v1")
	{
		images := api.Group("/images")
		{
			images.POST("", handler.UploadImages)
			images.GET("", handler.ListImages)
			images.DELETE("", handler.ClearWorkspace)
			images.GET("/:id", handler.GetImage)
			images.DELETE("/:id", handler.DeleteImage)
			images.GET("/:id/original", handler.DownloadOriginal)
			images.GET("/:id/processed", handler.DownloadProcessed)
			images.POST("/:id/clear", handler.ClearFilters)
			images.PUT("/:id/operations/:kind", handler.ToggleOperation)
			images.PUT("/:id/operations/:kind/value", handler.SetParameter)
		}

		global := api.Group("/global")
		{
			global.PUT("/operations/:kind", handler.ToggleGlobal)
			global.PUT("/operations/:kind/value", handler.SetGlobalParameter)
			global.POST("/clear", handler.ClearAllFilters)
		}

		api.GET("/workspace", handler.GetWorkspace)
		api.GET("/catalog", handler.GetCatalog)
		api.POST("/report", handler.ExportReport)
		api.GET("/report/:id", handler.DownloadReport)
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "filterbench",
		})
	})
	return router
}
