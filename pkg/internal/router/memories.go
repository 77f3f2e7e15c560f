package router

import (
	"github.com/gin-gonic/gin"

	"github.com/eduardoinoa18/memorybox/pkg/internal/handle"
)

// RegisterMemoriesRoutes binds the memory upload and query routes.
func RegisterMemoriesRoutes(g *gin.RouterGroup) {
	memories := g.Group("/memories")
	{
		// Upload one file
		memories.POST("", handle.UploadMemory)
		// Upload several files in bounded concurrent chunks
		memories.POST("/batch", handle.BatchUploadMemories)
		// Page through the caller's memories
		memories.GET("", handle.ListMemories)

		single := memories.Group("/:id")
		{
			single.GET("", handle.GetMemory)
			// Presigned download link
			single.GET("/url", handle.GetMemoryDownloadURL)
			single.DELETE("", handle.DeleteMemory)
		}
	}
}
