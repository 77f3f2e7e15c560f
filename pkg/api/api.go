// Package api registers the HTTP route groups on a gin engine.
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/eduardoinoa18/memorybox/pkg/internal/router"
)

// RegisterGroup binds every route under /api/v1 plus the swagger docs.
func RegisterGroup(e *gin.Engine) *gin.Engine {
	router.RegisterAll(e.Group("/api/v1"))
	router.RegisterSwaggerRoute(e)

	return e
}
