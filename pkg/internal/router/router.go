// Package router binds HTTP paths to their handlers.
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterAll wires every route group under the given API group.
func RegisterAll(g *gin.RouterGroup) {
	RegisterMemoriesRoutes(g)
	RegisterStatsRoutes(g)
	RegisterHealthCheckRoute(g)
	RegisterSchedulerRoutes(g)
}
