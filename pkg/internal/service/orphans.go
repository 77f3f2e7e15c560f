package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"gorm.io/gorm"

	"github.com/eduardoinoa18/memorybox/pkg/internal/model"
	mlog "github.com/eduardoinoa18/memorybox/pkg/log"
	"github.com/eduardoinoa18/memorybox/pkg/queue"
)

const memoriesKeyPrefix = "users/"

// SweepOrphanedBlobs walks the memory blobs and removes those with no
// matching record, provided they are older than the configured grace
// period. The grace window keeps in-flight uploads (blob stored, record
// not yet committed) out of the sweep.
func (s *MemoryService) SweepOrphanedBlobs(ctx context.Context) (swept int, err error) {
	bucket, err := s.defaultBucket()
	if err != nil {
		return 0, err
	}

	grace := time.Duration(s.cfg.OrphanGraceHrs) * time.Hour
	cutoff := time.Now().UTC().Add(-grace)

	opts := minio.ListObjectsOptions{Prefix: memoriesKeyPrefix, Recursive: true}

	for object := range s.s3Client.ListObjects(ctx, bucket, opts) {
		if object.Err != nil {
			return swept, fmt.Errorf("list objects: %w", object.Err)
		}

		// Only memory blobs: users/{user}/memories/{name}.
		if !strings.Contains(object.Key, "/memories/") {
			continue
		}

		if object.LastModified.After(cutoff) {
			continue
		}

		orphan, checkErr := s.isOrphan(ctx, object.Key)
		if checkErr != nil {
			return swept, checkErr
		}

		if !orphan {
			continue
		}

		blob := queue.BlobRef{
			Bucket:    bucket,
			ObjectKey: object.Key,
			ETag:      object.ETag,
			Size:      object.Size,
		}

		s.publishOrphanFound(blob, object.LastModified)

		if rmErr := s.blobs.Remove(ctx, bucket, object.Key); rmErr != nil {
			mlog.Logger().Warn().Err(rmErr).Str("key", object.Key).Msg("remove orphaned blob failed")

			continue
		}

		swept++

		mlog.Logger().Info().
			Str("key", object.Key).
			Int64("size", object.Size).
			Time("modified", object.LastModified).
			Msg("orphaned blob swept")

		s.publishOrphanSwept(blob)
	}

	return swept, nil
}

// isOrphan reports whether no record (live or soft-deleted) points at the
// object key. Soft-deleted rows keep their blobs out of the sweep so a
// future restore path stays possible.
func (s *MemoryService) isOrphan(ctx context.Context, objectKey string) (bool, error) {
	var record model.Memory

	err := s.dbClient.WithContext(ctx).
		Unscoped().
		Select("memory_id").
		Where("object_key = ?", objectKey).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return true, nil
		}

		return false, fmt.Errorf("lookup record for %s: %w", objectKey, err)
	}

	return false, nil
}

func (s *MemoryService) publishOrphanFound(blob queue.BlobRef, modified time.Time) {
	if !s.eventsEnabled(s.eventsCfg.Memory.OrphanFound) {
		return
	}

	err := queue.PublishOrphanFound(s.mqClient.Publisher(), queue.OrphanFoundPayload{
		Blob:     blob,
		Modified: modified,
	})
	if err != nil {
		mlog.Logger().Warn().Err(err).Str("key", blob.ObjectKey).Msg("publish orphan found event failed")
	}
}

func (s *MemoryService) publishOrphanSwept(blob queue.BlobRef) {
	if !s.eventsEnabled(s.eventsCfg.Memory.OrphanSwept) {
		return
	}

	err := queue.PublishOrphanSwept(s.mqClient.Publisher(), queue.OrphanSweptPayload{Blob: blob})
	if err != nil {
		mlog.Logger().Warn().Err(err).Str("key", blob.ObjectKey).Msg("publish orphan swept event failed")
	}
}
