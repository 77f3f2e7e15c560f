package router

import (
	"github.com/gin-gonic/gin"

	"github.com/eduardoinoa18/memorybox/pkg/internal/handle"
)

// RegisterStatsRoutes binds the storage statistics routes.
func RegisterStatsRoutes(g *gin.RouterGroup) {
	stats := g.Group("/stats")
	{
		stats.GET("", handle.GetStorageStats)
		stats.GET("/types", handle.GetTypeStats)
	}
}
