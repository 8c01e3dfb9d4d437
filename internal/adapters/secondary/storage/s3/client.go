package s3

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/admin/cosmic-connect/internal/ports/storage"
	"github.com/minio/minio-go/v7"
)

const defaultPresignTTL = 15 * time.Minute

// ProofStore хранилище пруфов оплаты в MinIO/S3
type ProofStore struct {
	client *minio.Client
	bucket string
	log    *slog.Logger
}

func NewProofStore(client *minio.Client, bucket string, log *slog.Logger) *ProofStore {
	return &ProofStore{
		client: client,
		bucket: bucket,
		log:    log,
	}
}

var _ storage.IProofStorage = (*ProofStore)(nil)

// Upload кладёт объект по ключу; size=-1 - потоковая загрузка неизвестного размера
func (s *ProofStore) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	info, err := s.client.PutObject(ctx, s.bucket, key, body, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		s.log.Error("failed to upload proof",
			"error", err,
			"bucket", s.bucket,
			"key", key,
		)
		return fmt.Errorf("failed to put object %s: %w", key, err)
	}

	s.log.Debug("proof uploaded",
		"bucket", s.bucket,
		"key", key,
		"size", info.Size,
	)
	return nil
}

// GetPresignedURL временная ссылка на пруф для админа
func (s *ProofStore) GetPresignedURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	if expires <= 0 {
		expires = defaultPresignTTL
	}

	url, err := s.client.PresignedGetObject(ctx, s.bucket, key, expires, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL for %s: %w", key, err)
	}

	return url.String(), nil
}

// Delete удаляет объект, используется для отката загрузки, если платёж не сохранился
func (s *ProofStore) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove object %s: %w", key, err)
	}
	return nil
}
