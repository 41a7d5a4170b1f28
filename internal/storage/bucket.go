package storage

import (
	"context"

	"github.com/omarsaab96/2akel/internal/remote"
)

// Bucket stores images in the hosted object storage.
type Bucket struct {
	client *remote.Client
	bucket string
}

func NewBucket(client *remote.Client, bucket string) *Bucket {
	return &Bucket{client: client, bucket: bucket}
}

func (b *Bucket) Upload(ctx context.Context, objectPath, contentType string, data []byte) (string, error) {
	return b.client.Upload(ctx, b.bucket, objectPath, contentType, data)
}

func (b *Bucket) Remove(ctx context.Context, publicURL string) error {
	return b.client.Remove(ctx, b.bucket, publicURL)
}
