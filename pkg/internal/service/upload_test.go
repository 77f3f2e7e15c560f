package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/minio/minio-go/v7"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/eduardoinoa18/memorybox/pkg/internal/model"
	"github.com/eduardoinoa18/memorybox/pkg/internal/storage/db"
	"github.com/eduardoinoa18/memorybox/pkg/internal/types"
)

// fakeBlobStore keeps blobs in a map so the pipeline runs without a
// storage backend. Error fields inject failures per operation.
type fakeBlobStore struct {
	mu      sync.Mutex
	objects map[string][]byte

	putErr    error
	removeErr error

	removedIncomplete []string
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{objects: map[string][]byte{}}
}

func (f *fakeBlobStore) Put(_ context.Context, bucket, key string, r io.Reader, _ int64, _ minio.PutObjectOptions) (minio.UploadInfo, error) {
	if f.putErr != nil {
		return minio.UploadInfo{}, f.putErr
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return minio.UploadInfo{}, err
	}

	f.mu.Lock()
	f.objects[bucket+"/"+key] = data
	f.mu.Unlock()

	return minio.UploadInfo{Bucket: bucket, Key: key, Size: int64(len(data)), ETag: "fake-etag"}, nil
}

func (f *fakeBlobStore) Remove(_ context.Context, bucket, key string) error {
	if f.removeErr != nil {
		return f.removeErr
	}

	f.mu.Lock()
	delete(f.objects, bucket+"/"+key)
	f.mu.Unlock()

	return nil
}

func (f *fakeBlobStore) RemoveIncomplete(_ context.Context, bucket, key string) error {
	f.mu.Lock()
	f.removedIncomplete = append(f.removedIncomplete, bucket+"/"+key)
	f.mu.Unlock()

	return nil
}

func (f *fakeBlobStore) ExternalURL(bucket, key string) string {
	return fmt.Sprintf("https://blobs.test/%s/%s", bucket, key)
}

func (f *fakeBlobStore) get(bucket, key string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, ok := f.objects[bucket+"/"+key]

	return data, ok
}

func (f *fakeBlobStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.objects)
}

// newPipelineTestService wires a MemoryService to an in-memory database
// and a fake blob store, so the full upload/delete path runs in-process.
func newPipelineTestService(t *testing.T) (*MemoryService, *fakeBlobStore) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Discard})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}

	// One connection keeps every session on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)

	if err := gdb.AutoMigrate(&model.Memory{}, &model.UserStats{}, &model.FolderStats{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	blobs := newFakeBlobStore()

	svc := &MemoryService{
		dbClient:    &db.Client{DB: gdb},
		cfg:         testUploadConfig(),
		bucket:      "memories-test",
		blobs:       blobs,
		transformer: &fakeTransformer{err: errors.New("not an image")},
	}

	return svc, blobs
}

func textCandidate(name, content string) types.UploadCandidate {
	return types.UploadCandidate{
		FileName:    name,
		ContentType: "text/plain",
		SizeBytes:   int64(len(content)),
		Reader:      bytes.NewReader([]byte(content)),
	}
}

func (s *MemoryService) memoryCount(t *testing.T, userID string) int64 {
	t.Helper()

	var n int64
	if err := s.dbClient.Model(&model.Memory{}).Where("user_id = ?", userID).Count(&n).Error; err != nil {
		t.Fatalf("count memories: %v", err)
	}

	return n
}

func (s *MemoryService) userStats(t *testing.T, userID string) model.UserStats {
	t.Helper()

	var stats model.UserStats
	err := s.dbClient.Where("user_id = ?", userID).First(&stats).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("load user stats: %v", err)
	}

	return stats
}

func TestUploadStoresBlobRecordAndAggregates(t *testing.T) {
	svc, blobs := newPipelineTestService(t)

	content := "summer holiday notes"
	candidate := textCandidate("holiday.txt", content)
	candidate.FolderID = "f-1"
	candidate.Category = "travel"
	candidate.Tags = []string{"beach", "2026"}
	candidate.Description = "first day at the coast"
	candidate.Public = true
	candidate.SharedWith = []string{"u2", "u3"}

	result, err := svc.Upload(context.Background(), "u1", "free", candidate, nil)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	stored, ok := blobs.get("memories-test", result.ObjectKey)
	if !ok {
		t.Fatalf("no blob at %s", result.ObjectKey)
	}

	if !bytes.Equal(stored, []byte(content)) {
		t.Error("stored blob differs from the source bytes")
	}

	var record model.Memory
	if err := svc.dbClient.Where("memory_id = ?", result.MemoryID).First(&record).Error; err != nil {
		t.Fatalf("load record: %v", err)
	}

	if record.ObjectKey != result.ObjectKey || record.DownloadURL == "" {
		t.Error("record is missing its blob reference")
	}

	if record.Category != "travel" || record.Description != "first day at the coast" || !record.Public {
		t.Errorf("descriptive fields not persisted: %+v", record)
	}

	if got := decodeStringList(record.Tags); len(got) != 2 || got[0] != "beach" {
		t.Errorf("tags = %v, want [beach 2026]", got)
	}

	if got := decodeStringList(record.SharedWith); len(got) != 2 || got[1] != "u3" {
		t.Errorf("shared with = %v, want [u2 u3]", got)
	}

	stats := svc.userStats(t, "u1")
	if stats.TotalSizeBytes != int64(len(content)) || stats.MemoryCount != 1 {
		t.Errorf("aggregates = %d bytes / %d files, want %d / 1", stats.TotalSizeBytes, stats.MemoryCount, len(content))
	}
}

// A transfer failure leaves nothing behind: no record, no aggregate
// movement, and the partial transfer is cleaned up.
func TestUploadBlobFailureLeavesNoRecord(t *testing.T) {
	svc, blobs := newPipelineTestService(t)
	blobs.putErr = errors.New("connection reset")

	_, err := svc.Upload(context.Background(), "u1", "free", textCandidate("notes.txt", "hello"), nil)
	if !errors.Is(err, ErrUploadFailed) {
		t.Fatalf("err = %v, want ErrUploadFailed", err)
	}

	if n := svc.memoryCount(t, "u1"); n != 0 {
		t.Errorf("%d records exist after a failed transfer", n)
	}

	if stats := svc.userStats(t, "u1"); stats.MemoryCount != 0 {
		t.Errorf("aggregates moved after a failed transfer: %+v", stats)
	}

	if len(blobs.removedIncomplete) != 1 {
		t.Errorf("incomplete cleanup ran %d times, want 1", len(blobs.removedIncomplete))
	}
}

// A metadata failure after a successful transfer surfaces as
// ErrPersistenceFailed, distinct from a transfer failure, and the blob
// stays behind for the reconciliation sweep.
func TestUploadPersistenceFailureIsDistinct(t *testing.T) {
	svc, blobs := newPipelineTestService(t)

	if err := svc.dbClient.Migrator().DropTable(&model.Memory{}); err != nil {
		t.Fatalf("drop table: %v", err)
	}

	_, err := svc.Upload(context.Background(), "u1", "free", textCandidate("notes.txt", "hello"), nil)
	if !errors.Is(err, ErrPersistenceFailed) {
		t.Fatalf("err = %v, want ErrPersistenceFailed", err)
	}

	if errors.Is(err, ErrUploadFailed) {
		t.Error("persistence failure also matches ErrUploadFailed")
	}

	if blobs.count() != 1 {
		t.Errorf("%d blobs stored, want the orphaned one", blobs.count())
	}
}

// Concurrent uploads for one user settle to exact aggregate totals; the
// increments commute, so no interleaving loses an update.
func TestUploadConcurrentAggregateTotals(t *testing.T) {
	svc, _ := newPipelineTestService(t)

	const uploads = 8

	var total int64

	var wg sync.WaitGroup
	for i := range uploads {
		content := bytes.Repeat([]byte("x"), (i+1)*100)
		total += int64(len(content))

		wg.Add(1)
		go func(content []byte) {
			defer wg.Done()

			candidate := types.UploadCandidate{
				FileName:    "chunk.txt",
				ContentType: "text/plain",
				SizeBytes:   int64(len(content)),
				Reader:      bytes.NewReader(content),
			}

			if _, err := svc.Upload(context.Background(), "u1", "free", candidate, nil); err != nil {
				t.Errorf("upload: %v", err)
			}
		}(content)
	}
	wg.Wait()

	stats := svc.userStats(t, "u1")
	if stats.TotalSizeBytes != total || stats.MemoryCount != uploads {
		t.Errorf("aggregates = %d bytes / %d files, want %d / %d", stats.TotalSizeBytes, stats.MemoryCount, total, uploads)
	}
}

// Dimensions from the processing stage land on the record.
func TestUploadPersistsImageDimensions(t *testing.T) {
	svc, _ := newPipelineTestService(t)
	svc.transformer = &fakeTransformer{result: &TransformResult{
		Data:        []byte("jpeg bytes"),
		ContentType: "image/jpeg",
		Ext:         ".jpg",
		Width:       1620,
		Height:      1080,
	}}

	candidate := types.UploadCandidate{
		FileName:    "photo.png",
		ContentType: "image/png",
		SizeBytes:   4,
		Reader:      bytes.NewReader([]byte("data")),
	}

	result, err := svc.Upload(context.Background(), "u1", "free", candidate, nil)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if result.Width != 1620 || result.Height != 1080 {
		t.Errorf("result dimensions = %dx%d, want 1620x1080", result.Width, result.Height)
	}

	var record model.Memory
	if err := svc.dbClient.Where("memory_id = ?", result.MemoryID).First(&record).Error; err != nil {
		t.Fatalf("load record: %v", err)
	}

	if record.Width != 1620 || record.Height != 1080 {
		t.Errorf("record dimensions = %dx%d, want 1620x1080", record.Width, record.Height)
	}
}
