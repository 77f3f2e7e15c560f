package router

import (
	"github.com/gin-gonic/gin"

	"github.com/eduardoinoa18/memorybox/pkg/internal/handle"
)

// RegisterSchedulerRoutes binds the maintenance job routes.
func RegisterSchedulerRoutes(g *gin.RouterGroup) {
	g.GET("/scheduler/jobs", handle.SchedulerJobs)
	g.POST("/scheduler/jobs/stop", handle.SchedulerStopJobs)
	g.DELETE("/scheduler/jobs/:id", handle.SchedulerRemoveJob)
}
