package s3

import (
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type Config struct {
	Host       string `envconfig:"HOST" required:"true"`       // localhost:9000
	AccessKey  string `envconfig:"ACCESS_KEY" required:"true"` // minioadmin
	SecretKey  string `envconfig:"SECRET_KEY" required:"true"`
	Bucket     string `envconfig:"BUCKET" default:"payment-proofs"`
	Region     string `envconfig:"REGION"`
	UseSSL     bool   `envconfig:"USE_SSL" default:"false"` // false для локальной разработки
	AutoCreate bool   `envconfig:"AUTO_CREATE_BUCKET" default:"false"`
}

// NewClient создаёт MinIO клиент и проверяет, что bucket существует
func (c *Config) NewClient() (*minio.Client, error) {
	client, err := minio.New(c.Host, &minio.Options{
		Creds:  credentials.NewStaticV4(c.AccessKey, c.SecretKey, ""),
		Secure: c.UseSSL,
		Region: c.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, c.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		if !c.AutoCreate {
			return nil, fmt.Errorf("bucket %s does not exist", c.Bucket)
		}
		if err := client.MakeBucket(ctx, c.Bucket, minio.MakeBucketOptions{Region: c.Region}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", c.Bucket, err)
		}
	}

	return client, nil
}
