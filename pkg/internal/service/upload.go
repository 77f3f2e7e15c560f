package service

import (
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/eduardoinoa18/memorybox/pkg/configs"
	ctxPkg "github.com/eduardoinoa18/memorybox/pkg/context"
	"github.com/eduardoinoa18/memorybox/pkg/internal/model"
	"github.com/eduardoinoa18/memorybox/pkg/internal/types"
	mlog "github.com/eduardoinoa18/memorybox/pkg/log"
	"github.com/eduardoinoa18/memorybox/pkg/metrics"
	"github.com/eduardoinoa18/memorybox/pkg/queue"
)

const incompleteCleanupTimeout = 30 * time.Second

// Upload runs the single-file pipeline: validate, process, store the blob,
// persist the record, bump the aggregates. Progress is reported through fn
// as a monotonically non-decreasing fraction of the stored payload.
//
// On a transfer failure or cancellation nothing is persisted and no blob
// remains. A metadata failure after a successful blob upload returns
// ErrPersistenceFailed and reports the orphaned blob.
func (s *MemoryService) Upload(ctx context.Context, userID string, tier configs.PlanTier, candidate types.UploadCandidate, fn types.ProgressFunc) (result *types.UploadResult, err error) {
	start := time.Now()

	defer func() {
		metrics.UploadDuration.Observe(time.Since(start).Seconds())
		metrics.UploadCounter.WithLabelValues(classifyError(err)).Inc()
	}()

	if userID == "" {
		return nil, fmt.Errorf("user is required")
	}

	if err = s.ValidateCandidate(candidate, tier); err != nil {
		return nil, err
	}

	processed := s.ProcessCandidate(ctx, userID, candidate)

	memoryID, generatedName := generateFileName(processed.FileName)
	objectKey := buildObjectKey(userID, generatedName)

	bucket, err := s.defaultBucket()
	if err != nil {
		return nil, err
	}

	uploadedAt := time.Now().UTC()

	putOpts := minio.PutObjectOptions{
		ContentType: processed.ContentType,
		UserMetadata: map[string]string{
			"original-name": candidate.FileName,
			"user-id":       userID,
			"uploaded-at":   uploadedAt.Format(time.RFC3339),
		},
	}
	if candidate.FolderID != "" {
		putOpts.UserMetadata["folder-id"] = candidate.FolderID
	}

	if candidate.Category != "" {
		putOpts.UserMetadata["category"] = candidate.Category
	}

	reader := newProgressReader(processed.Reader, processed.SizeBytes, fn)

	info, putErr := s.blobs.Put(ctx, bucket, objectKey, reader, processed.SizeBytes, putOpts)
	if putErr != nil {
		s.removeIncomplete(bucket, objectKey)

		if ctx.Err() != nil {
			err = fmt.Errorf("upload %s: %w", objectKey, ctx.Err())

			return nil, err
		}

		err = fmt.Errorf("%w: put %s: %v", ErrUploadFailed, objectKey, putErr)

		return nil, err
	}

	downloadURL := s.buildDownloadURL(bucket, objectKey)

	record := &model.Memory{
		MemoryID:          memoryID,
		UserID:            userID,
		ObjectKey:         objectKey,
		FileName:          candidate.FileName,
		GeneratedFileName: generatedName,
		DownloadURL:       downloadURL,
		ContentType:       processed.ContentType,
		SizeBytes:         info.Size,
		OriginalSizeBytes: processed.OriginalSizeBytes,
		Width:             processed.Width,
		Height:            processed.Height,
		FolderID:          candidate.FolderID,
		Category:          candidate.Category,
		Tags:              encodeStringList(candidate.Tags),
		Description:       candidate.Description,
		Public:            candidate.Public,
		SharedWith:        encodeStringList(candidate.SharedWith),
		Source:            s.cfg.Source,
		ETag:              info.ETag,
		Bucket:            bucket,
		Processed:         processed.Transformed,
		SchemaVersion:     configs.UploadSchemaVersion,
		UploadedAt:        uploadedAt,
	}

	blob := queue.BlobRef{
		Bucket:      bucket,
		ObjectKey:   objectKey,
		ETag:        info.ETag,
		Size:        info.Size,
		ContentType: processed.ContentType,
	}

	if createErr := s.dbClient.WithContext(ctx).Create(record).Error; createErr != nil {
		s.reportOrphan(ctx, userID, blob, createErr)

		err = fmt.Errorf("%w: %v", ErrPersistenceFailed, createErr)

		return nil, err
	}

	// Aggregates move by atomic increments and never fail the upload.
	s.applyAggregateDelta(ctx, userID, candidate.FolderID, info.Size, 1)
	s.invalidateStatsCache(ctx, userID)

	metrics.UploadedBytes.Add(float64(info.Size))

	s.publishStored(ctx, record, blob)

	return &types.UploadResult{
		MemoryID:          memoryID,
		ObjectKey:         objectKey,
		DownloadURL:       downloadURL,
		FileName:          candidate.FileName,
		GeneratedFileName: generatedName,
		ContentType:       processed.ContentType,
		SizeBytes:         info.Size,
		OriginalSizeBytes: processed.OriginalSizeBytes,
		Width:             processed.Width,
		Height:            processed.Height,
		FolderID:          candidate.FolderID,
		Category:          candidate.Category,
		Tags:              candidate.Tags,
		Description:       candidate.Description,
		Public:            candidate.Public,
		SharedWith:        candidate.SharedWith,
		ETag:              info.ETag,
		Processed:         processed.Transformed,
		DegradeReason:     processed.DegradeReason,
		UploadedAt:        uploadedAt.Format(time.RFC3339),
	}, nil
}

// removeIncomplete drops any multipart parts a failed or cancelled transfer
// left behind. Uses a detached context: the caller's may already be dead.
func (s *MemoryService) removeIncomplete(bucket, objectKey string) {
	cleanupCtx, cancel := context.WithTimeout(context.Background(), incompleteCleanupTimeout)
	defer cancel()

	if err := s.blobs.RemoveIncomplete(cleanupCtx, bucket, objectKey); err != nil {
		mlog.Logger().Warn().
			Err(err).
			Str("bucket", bucket).
			Str("key", objectKey).
			Msg("remove incomplete upload failed")
	}
}

// buildDownloadURL returns the blob's durable URL on the storage endpoint.
func (s *MemoryService) buildDownloadURL(bucket, objectKey string) string {
	return s.blobs.ExternalURL(bucket, objectKey)
}

// reportOrphan records a blob whose metadata write failed: structured log,
// counter, and a persist-failed event for the reconciliation sweeper.
func (s *MemoryService) reportOrphan(ctx context.Context, userID string, blob queue.BlobRef, cause error) {
	logger := ctxPkg.WithTraceContext(ctx, *mlog.Logger())
	logger.Error().
		Err(cause).
		Str("user", userID).
		Str("bucket", blob.Bucket).
		Str("key", blob.ObjectKey).
		Msg("metadata write failed, blob orphaned")

	metrics.OrphanedBlobs.Inc()

	if s.eventsEnabled(s.eventsCfg.Memory.PersistFailed) {
		if err := queue.PublishMemoryPersistFailed(s.mqClient.Publisher(), queue.MemoryPersistFailedPayload{
			Blob:   blob,
			UserID: userID,
			Error:  cause.Error(),
		}); err != nil {
			logger.Warn().Err(err).Msg("publish persist failed event failed")
		}
	}
}

// applyAggregateDelta moves the user and folder aggregates by atomic SQL
// increments, upserting the row on first touch. Failures are logged and
// counted only.
func (s *MemoryService) applyAggregateDelta(ctx context.Context, userID, folderID string, sizeDelta, countDelta int64) {
	now := time.Now().UTC()
	gdb := s.dbClient.WithContext(ctx)

	err := gdb.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"total_size_bytes": gorm.Expr("total_size_bytes + ?", sizeDelta),
			"memory_count":     gorm.Expr("memory_count + ?", countDelta),
			"updated_at":       now,
		}),
	}).Create(&model.UserStats{
		UserID:         userID,
		TotalSizeBytes: sizeDelta,
		MemoryCount:    countDelta,
		UpdatedAt:      now,
	}).Error
	if err != nil {
		metrics.AggregateUpdateFailures.Inc()
		mlog.Logger().Warn().Err(err).Str("user", userID).Msg("user aggregate update failed")
	}

	if folderID == "" {
		return
	}

	err = gdb.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "folder_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"total_size_bytes": gorm.Expr("total_size_bytes + ?", sizeDelta),
			"memory_count":     gorm.Expr("memory_count + ?", countDelta),
			"updated_at":       now,
		}),
	}).Create(&model.FolderStats{
		UserID:         userID,
		FolderID:       folderID,
		TotalSizeBytes: sizeDelta,
		MemoryCount:    countDelta,
		UpdatedAt:      now,
	}).Error
	if err != nil {
		metrics.AggregateUpdateFailures.Inc()
		mlog.Logger().Warn().Err(err).
			Str("user", userID).
			Str("folder", folderID).
			Msg("folder aggregate update failed")
	}
}

func (s *MemoryService) publishStored(ctx context.Context, record *model.Memory, blob queue.BlobRef) {
	if !s.eventsEnabled(s.eventsCfg.Memory.Stored) {
		return
	}

	err := queue.PublishMemoryStored(s.mqClient.Publisher(), queue.MemoryStoredPayload{
		Blob:     blob,
		MemoryID: record.MemoryID,
		UserID:   record.UserID,
		FolderID: record.FolderID,
		FileName: record.FileName,
		Source:   record.Source,
	})
	if err != nil {
		logger := ctxPkg.WithTraceContext(ctx, *mlog.Logger())
		logger.Warn().Err(err).Str("memory", record.MemoryID).Msg("publish memory stored event failed")
	}
}
