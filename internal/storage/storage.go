package storage

import (
	"context"
	"time"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// SnapshotStorage defines the interface for object storage of exercise
// catalog snapshots. The actual JSON documents reside in an S3-compatible
// bucket; Mongo only sees the live catalog.
type SnapshotStorage interface {
	// PutObject uploads a snapshot document under the given key.
	PutObject(ctx context.Context, objectKey string, contentType string, body []byte) error

	// GetObject downloads a snapshot document by key.
	GetObject(ctx context.Context, objectKey string) ([]byte, error)

	// GeneratePresignedDownloadURL creates a temporary URL that allows GET
	// requests for downloading a snapshot directly from the storage provider.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	// DeleteObject removes a snapshot from the storage provider.
	DeleteObject(ctx context.Context, objectKey string) error
}
