package handle

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/eduardoinoa18/memorybox/pkg/internal/service"
)

// ListMemories returns one page of the caller's memories.
//
//	@Summary		List memories
//	@Tags			memories
//	@Produce		json
//	@Param			page		query		int		false	"page number (1-based)"
//	@Param			page_size	query		int		false	"page size"
//	@Param			folder_id	query		string	false	"filter to a folder"
//	@Success		200			{object}	types.ListMemoriesResponse
//	@Router			/api/v1/memories [get]
func ListMemories(c *gin.Context) {
	user := checkUser(c)
	if user == "" {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "0"))

	ctx := c.Request.Context()
	svc := service.NewMemoryService(ctx)

	resp, err := svc.ListMemories(ctx, user, c.Query("folder_id"), page, pageSize)
	if err != nil {
		respondServiceError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetMemory returns one memory record.
//
//	@Summary		Get a memory
//	@Tags			memories
//	@Produce		json
//	@Param			id	path		string	true	"memory id"
//	@Success		200	{object}	types.MemoryInfo
//	@Failure		404	{object}	map[string]string
//	@Router			/api/v1/memories/{id} [get]
func GetMemory(c *gin.Context) {
	user := checkUser(c)
	if user == "" {
		return
	}

	ctx := c.Request.Context()
	svc := service.NewMemoryService(ctx)

	info, err := svc.GetMemory(ctx, user, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)

		return
	}

	c.JSON(http.StatusOK, info)
}

// GetMemoryDownloadURL issues a download link.
//
//	@Summary		Get a download URL
//	@Description	Returns the durable URL for public memories, a short-lived presigned GET link otherwise
//	@Tags			memories
//	@Produce		json
//	@Param			id	path		string	true	"memory id"
//	@Success		200	{object}	types.DownloadURLResponse
//	@Failure		404	{object}	map[string]string
//	@Router			/api/v1/memories/{id}/url [get]
func GetMemoryDownloadURL(c *gin.Context) {
	user := checkUser(c)
	if user == "" {
		return
	}

	ctx := c.Request.Context()
	svc := service.NewMemoryService(ctx)

	resp, err := svc.GetDownloadURL(ctx, user, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// DeleteMemory removes a memory and its blob.
//
//	@Summary		Delete a memory
//	@Description	Removes the blob first, then the record, then adjusts the aggregates
//	@Tags			memories
//	@Produce		json
//	@Param			id	path		string	true	"memory id"
//	@Success		200	{object}	types.DeleteMemoryResponse
//	@Failure		404	{object}	map[string]string
//	@Router			/api/v1/memories/{id} [delete]
func DeleteMemory(c *gin.Context) {
	user := checkUser(c)
	if user == "" {
		return
	}

	ctx := c.Request.Context()
	svc := service.NewMemoryService(ctx)

	resp, err := svc.Delete(ctx, user, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}
