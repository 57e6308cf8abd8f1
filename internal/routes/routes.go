package routes

import (
	"net/http"

	"agent-settings-api/internal/handlers"
	"agent-settings-api/internal/metrics"
	"agent-settings-api/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SetupRoutes builds the gin engine with public and protected routes.
func SetupRoutes(h *handlers.Handler, m *metrics.Metrics, logger *logrus.Logger) *gin.Engine {
	ginRouter := gin.New()
	ginRouter.Use(
		gin.Recovery(),
		middleware.RequestLogger(logger),
		middleware.CollectHTTPMetrics(m),
		middleware.CORS(),
	)

	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Agent settings API is running",
		})
	})
	ginRouter.GET("/metrics", gin.WrapH(m.Handler()))

	// Public routes (no authentication required)
	api := ginRouter.Group("/api")
	{
		api.POST("/login", handlers.Login)
	}

	// Protected routes (authentication required)
	protectedRoutes := api.Group("")
	protectedRoutes.Use(middleware.JWTAuthMiddleware())
	{
		protectedRoutes.GET("/roles", h.ListRoles)
		protectedRoutes.POST("/roles", h.CreateRole)
		protectedRoutes.POST("/roles/import", h.ImportRoles)
		protectedRoutes.POST("/roles/bulk-delete", h.BulkDeleteRoles)
		protectedRoutes.GET("/roles/:id", h.GetRole)
		protectedRoutes.PUT("/roles/:id", h.UpdateRole)
		protectedRoutes.DELETE("/roles/:id", h.DeleteRole)

		protectedRoutes.GET("/agents", h.ListAgents)
		protectedRoutes.POST("/agents", h.CreateAgent)
		protectedRoutes.POST("/agents/import", h.ImportAgents)
		protectedRoutes.GET("/agents/:id", h.GetAgent)
		protectedRoutes.DELETE("/agents/:id", h.DeleteAgent)

		protectedRoutes.GET("/cache/stats", h.CacheStats)
		protectedRoutes.DELETE("/cache", h.ClearCaches)

		protectedRoutes.GET("/users", handlers.GetAllUsers)
		protectedRoutes.GET("/ws", h.WebSocket)
	}

	return ginRouter
}
