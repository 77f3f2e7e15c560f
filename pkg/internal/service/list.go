package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"gorm.io/gorm"

	"github.com/eduardoinoa18/memorybox/pkg/internal/model"
	"github.com/eduardoinoa18/memorybox/pkg/internal/types"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

// ListMemories returns one page of the user's memories, newest first,
// optionally filtered to a folder.
func (s *MemoryService) ListMemories(ctx context.Context, userID, folderID string, page, pageSize int) (*types.ListMemoriesResponse, error) {
	if userID == "" {
		return nil, fmt.Errorf("user is required")
	}

	if page < 1 {
		page = 1
	}

	if pageSize < 1 {
		pageSize = DefaultPageSize
	} else if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	query := s.dbClient.WithContext(ctx).Model(&model.Memory{}).Where("user_id = ?", userID)
	if folderID != "" {
		query = query.Where("folder_id = ?", folderID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count memories: %w", err)
	}

	records := make([]model.Memory, 0, DefaultSliceCapacity)

	err := query.
		Order("uploaded_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("list memories: %w", err)
	}

	memories := make([]types.MemoryInfo, 0, len(records))
	for _, r := range records {
		memories = append(memories, memoryInfo(r))
	}

	return &types.ListMemoriesResponse{
		Memories: memories,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// GetMemory returns one memory by ID, scoped to the user.
func (s *MemoryService) GetMemory(ctx context.Context, userID, memoryID string) (*types.MemoryInfo, error) {
	var record model.Memory

	err := s.dbClient.WithContext(ctx).
		Where("user_id = ? AND memory_id = ?", userID, memoryID).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("memory %s: %w", memoryID, ErrNotFound)
		}

		return nil, fmt.Errorf("load memory %s: %w", memoryID, err)
	}

	info := memoryInfo(record)

	return &info, nil
}

// GetDownloadURL issues a presigned GET link for a memory's blob.
func (s *MemoryService) GetDownloadURL(ctx context.Context, userID, memoryID string) (*types.DownloadURLResponse, error) {
	var record model.Memory

	err := s.dbClient.WithContext(ctx).
		Where("user_id = ? AND memory_id = ?", userID, memoryID).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("memory %s: %w", memoryID, ErrNotFound)
		}

		return nil, fmt.Errorf("load memory %s: %w", memoryID, err)
	}

	// Public memories resolve to their durable URL; only private ones
	// need a short-lived presigned link.
	if record.Public {
		return &types.DownloadURLResponse{
			MemoryID: memoryID,
			URL:      record.DownloadURL,
			Public:   true,
		}, nil
	}

	presignCtx, cancel := context.WithTimeout(ctx, DefaultPresignedOpTimeout)
	defer cancel()

	// Served with the original name, not the generated one.
	params := url.Values{}
	params.Set("response-content-disposition", fmt.Sprintf("attachment; filename=%q", record.FileName))

	signed, err := s.s3Client.PresignedGetObject(presignCtx, record.Bucket, record.ObjectKey, DefaultPresignedExpiry, params)
	if err != nil {
		return nil, fmt.Errorf("presign %s: %w", record.ObjectKey, err)
	}

	return &types.DownloadURLResponse{
		MemoryID:  memoryID,
		URL:       signed.String(),
		ExpiresIn: int(DefaultPresignedExpiry / time.Second),
	}, nil
}

func memoryInfo(r model.Memory) types.MemoryInfo {
	return types.MemoryInfo{
		MemoryID:    r.MemoryID,
		FileName:    r.FileName,
		ObjectKey:   r.ObjectKey,
		DownloadURL: r.DownloadURL,
		ContentType: r.ContentType,
		SizeBytes:   r.SizeBytes,
		Width:       r.Width,
		Height:      r.Height,
		FolderID:    r.FolderID,
		Category:    r.Category,
		Tags:        decodeStringList(r.Tags),
		Description: r.Description,
		Public:      r.Public,
		SharedWith:  decodeStringList(r.SharedWith),
		Source:      r.Source,
		Processed:   r.Processed,
		UploadedAt:  r.UploadedAt,
	}
}
