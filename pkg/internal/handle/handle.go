// Package handle implements the HTTP request handlers.
package handle

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eduardoinoa18/memorybox/pkg/internal/service"
	"github.com/eduardoinoa18/memorybox/pkg/log"
	"github.com/eduardoinoa18/memorybox/pkg/middleware"
)

// checkUser resolves the authenticated user or writes a 401 and returns "".
func checkUser(c *gin.Context) string {
	user := middleware.GetUserID(c)
	if user == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user identity required"})
	}

	return user
}

// respondServiceError translates a pipeline error into an HTTP response.
func respondServiceError(c *gin.Context, err error) {
	var ve *service.ValidationError

	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  ve.Error(),
			"reason": ve.Reason,
		})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrPersistenceFailed):
		log.Logger().Error().Err(err).Msg("persistence failure")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
			"kind":  "persistence_failed",
		})
	case errors.Is(err, service.ErrUploadFailed):
		log.Logger().Error().Err(err).Msg("upload failure")
		c.JSON(http.StatusBadGateway, gin.H{
			"error": err.Error(),
			"kind":  "upload_failed",
		})
	default:
		log.Logger().Error().Err(err).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
