package service

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"

	"github.com/eduardoinoa18/memorybox/pkg/internal/storage/s3"
)

// blobStore is the narrow slice of object storage the pipeline touches.
// s3BlobStore backs it in production; tests substitute an in-memory one,
// the same way Transformer works.
type blobStore interface {
	Put(ctx context.Context, bucket, key string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	Remove(ctx context.Context, bucket, key string) error
	RemoveIncomplete(ctx context.Context, bucket, key string) error
	// ExternalURL returns the blob's durable URL on the storage endpoint.
	ExternalURL(bucket, key string) string
}

type s3BlobStore struct {
	c *s3.Client
}

func (b s3BlobStore) Put(ctx context.Context, bucket, key string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	return b.c.PutObject(ctx, bucket, key, r, size, opts)
}

func (b s3BlobStore) Remove(ctx context.Context, bucket, key string) error {
	return b.c.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{})
}

func (b s3BlobStore) RemoveIncomplete(ctx context.Context, bucket, key string) error {
	return b.c.RemoveIncompleteUpload(ctx, bucket, key)
}

func (b s3BlobStore) ExternalURL(bucket, key string) string {
	return fmt.Sprintf("%s/%s/%s", b.c.EndpointURL(), bucket, key)
}
