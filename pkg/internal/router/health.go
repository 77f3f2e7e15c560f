package router

import (
	"github.com/gin-gonic/gin"

	"github.com/eduardoinoa18/memorybox/pkg/internal/handle"
)

// RegisterHealthCheckRoute binds the per-component health checks.
func RegisterHealthCheckRoute(g *gin.RouterGroup) {
	health := g.Group("/health")
	{
		health.GET("/db", handle.HealthDB)
		health.GET("/s3", handle.HealthS3)
		health.GET("/mq", handle.HealthMQ)
	}
}
