// Package service holds the upload pipeline business logic: validation,
// image processing, blob storage, metadata persistence and batch
// coordination. HTTP concerns stay in handle.
package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/oklog/ulid"

	"github.com/eduardoinoa18/memorybox/pkg/cache"
	"github.com/eduardoinoa18/memorybox/pkg/configs"
	ctxPkg "github.com/eduardoinoa18/memorybox/pkg/context"
	"github.com/eduardoinoa18/memorybox/pkg/internal/storage/db"
	"github.com/eduardoinoa18/memorybox/pkg/internal/storage/kv"
	"github.com/eduardoinoa18/memorybox/pkg/internal/storage/mq"
	"github.com/eduardoinoa18/memorybox/pkg/internal/storage/s3"
	mlog "github.com/eduardoinoa18/memorybox/pkg/log"
)

const (
	// DefaultSliceCapacity pre-sizes result slices for list operations.
	DefaultSliceCapacity = 100

	// DefaultPresignedOpTimeout bounds presigned URL generation.
	DefaultPresignedOpTimeout = 15 * time.Minute

	// DefaultPresignedExpiry is the lifetime of presigned download links.
	DefaultPresignedExpiry = 1 * time.Hour
)

// MemoryService owns memory upload, deletion and query logic. It does not
// handle HTTP details.
type MemoryService struct {
	s3Client *s3.Client
	dbClient *db.Client
	mqClient *mq.Client
	kvClient *kv.Client

	cfg         configs.UploadConfig
	eventsCfg   configs.EventsConfig
	bucket      string
	blobs       blobStore
	transformer Transformer
	statsCache  *cache.Cache
}

// NewMemoryService resolves dependencies from the request context. The S3
// and DB clients are mandatory; MQ and KV are optional (events and caching
// are best-effort).
func NewMemoryService(c context.Context) *MemoryService {
	s3c := ctxPkg.GetS3Client(c)
	dbc := ctxPkg.GetDBClient(c)

	// Fatal instead of returning nil keeps every caller free of nil checks.
	if s3c == nil || s3c.Client == nil || dbc == nil || dbc.DB == nil {
		mlog.Logger().Fatal().Msg("storage clients not initialized")
	}

	svc := &MemoryService{
		s3Client:    s3c,
		dbClient:    dbc,
		mqClient:    ctxPkg.GetMQClient(c),
		kvClient:    ctxPkg.GetKVClient(c),
		cfg:         configs.GetConfig().Upload,
		eventsCfg:   configs.GetConfig().Events,
		blobs:       s3BlobStore{c: s3c},
		transformer: NewImagingTransformer(),
	}

	if buckets := s3c.GetConfig().Buckets; len(buckets) > 0 {
		svc.bucket = buckets[0]
	}

	if svc.kvClient != nil {
		svc.statsCache = cache.NewCache(svc.kvClient.KVStore)
	}

	return svc
}

// eventsEnabled reports whether a topic's events should be published,
// honoring the master switch, the per-topic toggle and MQ availability.
func (s *MemoryService) eventsEnabled(topicFlag bool) bool {
	return s.mqClient != nil && s.eventsCfg.Enabled && topicFlag
}

// defaultBucket returns the bucket memory blobs live in, resolved once at
// construction from the first configured bucket.
func (s *MemoryService) defaultBucket() (string, error) {
	if s.bucket == "" {
		return "", fmt.Errorf("no s3 bucket configured")
	}

	return s.bucket, nil
}

// buildObjectKey builds the blob key for one stored memory:
//
//	users/{userID}/memories/{generatedFileName}
//
// Caller-supplied file names never appear in the key.
func buildObjectKey(userID, generatedFileName string) string {
	return fmt.Sprintf("users/%s/memories/%s", userID, generatedFileName)
}

// generateFileName derives the server-side name: a fresh ULID plus the
// original file's extension (lowercased). The ULID doubles as the record ID,
// so the blob key and the row can always be correlated.
func generateFileName(originalName string) (memoryID, fileName string) {
	memoryID = ulid.MustNew(ulid.Timestamp(time.Now().UTC()), rand.Reader).String()

	ext := strings.ToLower(path.Ext(originalName))

	return memoryID, memoryID + ext
}

// replaceExt swaps a file name's extension, keeping the stem.
func replaceExt(name, newExt string) string {
	return strings.TrimSuffix(name, path.Ext(name)) + newExt
}

// encodeStringList serializes a tag or shared-with list for its text
// column. Empty lists store as the empty string.
func encodeStringList(values []string) string {
	if len(values) == 0 {
		return ""
	}

	encoded, err := sonic.MarshalString(values)
	if err != nil {
		return ""
	}

	return encoded
}

// decodeStringList is the inverse of encodeStringList. Malformed column
// content decodes to nil rather than erroring a read path.
func decodeStringList(encoded string) []string {
	if encoded == "" {
		return nil
	}

	var values []string
	if err := sonic.UnmarshalString(encoded, &values); err != nil {
		return nil
	}

	return values
}
