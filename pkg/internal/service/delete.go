package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	ctxPkg "github.com/eduardoinoa18/memorybox/pkg/context"
	"github.com/eduardoinoa18/memorybox/pkg/internal/model"
	"github.com/eduardoinoa18/memorybox/pkg/internal/types"
	mlog "github.com/eduardoinoa18/memorybox/pkg/log"
	"github.com/eduardoinoa18/memorybox/pkg/queue"
)

// Delete removes a memory: blob first, then the record, then the aggregate
// decrements. A blob removal failure aborts before the record is touched, so
// a record never points at a missing blob. ErrNotFound when the memory does
// not exist (or belongs to someone else).
func (s *MemoryService) Delete(ctx context.Context, userID, memoryID string) (*types.DeleteMemoryResponse, error) {
	if userID == "" || memoryID == "" {
		return nil, fmt.Errorf("user and memory id are required")
	}

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

	if err := s.blobs.Remove(ctx, record.Bucket, record.ObjectKey); err != nil {
		return nil, fmt.Errorf("remove blob %s: %w", record.ObjectKey, err)
	}

	if err := s.dbClient.WithContext(ctx).Delete(&record).Error; err != nil {
		// Blob is gone but the row remains; the nightly recount will
		// not fix this, so surface it loudly.
		return nil, fmt.Errorf("%w: delete record %s: %v", ErrPersistenceFailed, memoryID, err)
	}

	s.applyAggregateDelta(ctx, userID, record.FolderID, -record.SizeBytes, -1)
	s.invalidateStatsCache(ctx, userID)

	if s.eventsEnabled(s.eventsCfg.Memory.Deleted) {
		err := queue.PublishMemoryDeleted(s.mqClient.Publisher(), queue.MemoryDeletedPayload{
			Blob: queue.BlobRef{
				Bucket:      record.Bucket,
				ObjectKey:   record.ObjectKey,
				ETag:        record.ETag,
				Size:        record.SizeBytes,
				ContentType: record.ContentType,
			},
			MemoryID: record.MemoryID,
			UserID:   userID,
			FolderID: record.FolderID,
		})
		if err != nil {
			logger := ctxPkg.WithTraceContext(ctx, *mlog.Logger())
			logger.Warn().Err(err).Str("memory", memoryID).Msg("publish memory deleted event failed")
		}
	}

	return &types.DeleteMemoryResponse{MemoryID: memoryID, Deleted: true}, nil
}
