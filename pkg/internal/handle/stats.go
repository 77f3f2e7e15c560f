package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eduardoinoa18/memorybox/pkg/internal/service"
)

// GetStorageStats returns the caller's storage summary.
//
//	@Summary		Storage statistics
//	@Description	Per-user totals from the aggregate tables plus per-folder breakdown
//	@Tags			stats
//	@Produce		json
//	@Success		200	{object}	types.StorageStatsResponse
//	@Router			/api/v1/stats [get]
func GetStorageStats(c *gin.Context) {
	user := checkUser(c)
	if user == "" {
		return
	}

	ctx := c.Request.Context()
	svc := service.NewMemoryService(ctx)

	resp, err := svc.GetStorageStats(ctx, user)
	if err != nil {
		respondServiceError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetTypeStats aggregates the caller's memories by MIME class.
//
//	@Summary		Per-type statistics
//	@Tags			stats
//	@Produce		json
//	@Success		200	{array}	types.StatsTypeItem
//	@Router			/api/v1/stats/types [get]
func GetTypeStats(c *gin.Context) {
	user := checkUser(c)
	if user == "" {
		return
	}

	ctx := c.Request.Context()
	svc := service.NewMemoryService(ctx)

	items, err := svc.GetTypeStats(ctx, user)
	if err != nil {
		respondServiceError(c, err)

		return
	}

	c.JSON(http.StatusOK, items)
}
