package storage

import (
	"context"
	"io"
	"time"
)

// IProofStorage объектное хранилище пруфов оплаты (MinIO/S3)
type IProofStorage interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	GetPresignedURL(ctx context.Context, key string, expires time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}
