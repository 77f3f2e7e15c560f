package handle

import (
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/eduardoinoa18/memorybox/pkg/internal/service"
	"github.com/eduardoinoa18/memorybox/pkg/internal/types"
	"github.com/eduardoinoa18/memorybox/pkg/log"
	"github.com/eduardoinoa18/memorybox/pkg/middleware"
)

// candidateFromHeader builds an upload candidate from one multipart part.
// The returned closer is the opened part; the caller closes it after the
// pipeline settles.
func candidateFromHeader(header *multipart.FileHeader, folderID string) (types.UploadCandidate, multipart.File, error) {
	file, err := header.Open()
	if err != nil {
		return types.UploadCandidate{}, nil, err
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(header.Filename))
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return types.UploadCandidate{
		FileName:    header.Filename,
		ContentType: contentType,
		SizeBytes:   header.Size,
		FolderID:    folderID,
		Reader:      file,
	}, file, nil
}

// applyCandidateMeta copies the optional descriptive form fields onto a
// candidate. Tags arrive comma-separated.
func applyCandidateMeta(c *gin.Context, candidate *types.UploadCandidate) {
	candidate.Category = c.PostForm("category")
	candidate.Description = c.PostForm("description")
	candidate.Public, _ = strconv.ParseBool(c.PostForm("public"))

	for _, tag := range strings.Split(c.PostForm("tags"), ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			candidate.Tags = append(candidate.Tags, tag)
		}
	}
}

// UploadMemory stores one file.
//
//	@Summary		Upload a memory
//	@Description	Validates, processes and stores one file, then persists its metadata record
//	@Tags			memories
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file		formData	file					true	"file content"
//	@Param			folder_id	formData	string					false	"target folder"
//	@Param			category	formData	string					false	"classification tag"
//	@Param			tags		formData	string					false	"comma-separated tags"
//	@Param			description	formData	string					false	"free-text description"
//	@Param			public		formData	boolean					false	"publicly downloadable"
//	@Success		200			{object}	types.UploadResult		"stored memory"
//	@Failure		400			{object}	map[string]string		"validation failure"
//	@Failure		502			{object}	map[string]string		"blob storage failure"
//	@Router			/api/v1/memories [post]
func UploadMemory(c *gin.Context) {
	user := checkUser(c)
	if user == "" {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file: " + err.Error()})

		return
	}

	candidate, file, err := candidateFromHeader(header, c.PostForm("folder_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}
	defer file.Close()

	applyCandidateMeta(c, &candidate)

	ctx := c.Request.Context()
	svc := service.NewMemoryService(ctx)

	result, err := svc.Upload(ctx, user, middleware.GetPlan(c), candidate, nil)
	if err != nil {
		respondServiceError(c, err)

		return
	}

	c.JSON(http.StatusOK, result)
}

// BatchUploadMemories stores several files in one request.
//
//	@Summary		Upload a batch of memories
//	@Description	Uploads files in bounded concurrent chunks; per-file failures do not abort the batch
//	@Tags			memories
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			files		formData	file						true	"file contents (repeatable)"
//	@Param			folder_id	formData	string						false	"target folder"
//	@Success		200			{object}	types.BatchUploadResponse	"per-file outcomes"
//	@Failure		400			{object}	map[string]string			"bad request"
//	@Router			/api/v1/memories/batch [post]
func BatchUploadMemories(c *gin.Context) {
	user := checkUser(c)
	if user == "" {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	headers := form.File["files"]
	if len(headers) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no files in request"})

		return
	}

	folderID := c.PostForm("folder_id")
	candidates := make([]types.UploadCandidate, 0, len(headers))
	files := make([]multipart.File, 0, len(headers))

	for _, header := range headers {
		candidate, file, openErr := candidateFromHeader(header, folderID)
		if openErr != nil {
			for _, f := range files {
				f.Close()
			}

			c.JSON(http.StatusBadRequest, gin.H{"error": openErr.Error()})

			return
		}

		// Descriptive fields apply batch-wide.
		applyCandidateMeta(c, &candidate)

		candidates = append(candidates, candidate)
		files = append(files, file)
	}

	defer func() {
		for _, f := range files {
			f.Close()
		}
	}()

	ctx := c.Request.Context()
	svc := service.NewMemoryService(ctx)

	resp := svc.BatchUpload(ctx, user, candidates, service.BatchOptions{
		Tier: middleware.GetPlan(c),
	})

	log.Logger().Info().
		Str("user", user).
		Int("total", resp.Total).
		Int("failed", resp.Failed).
		Msg("batch upload finished")

	c.JSON(http.StatusOK, resp)
}
