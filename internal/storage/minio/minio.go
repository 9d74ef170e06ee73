// minio предоставляет реализацию storage.Previews на базе MinIO/S3.
// minio.go — конструктор клиента: нормализует endpoint, настраивает
// Secure/creds и проверяет наличие бакета.
// previews.go — размещение превью и выдача presigned GET URL.
package minio

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	mclient "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/pribylovaa/linked-feed/internal/config"
	"github.com/pribylovaa/linked-feed/internal/storage"
)

// PreviewsStorage — адаптер MinIO для превью composer.
type PreviewsStorage struct {
	client  *mclient.Client
	bucket  string
	ttl     time.Duration
	maxSize int64
}

// New создаёт клиента и делает fail-fast-проверку бакета.
func New(ctx context.Context, cfg config.MediaConfig) (*PreviewsStorage, error) {
	const op = "storage/minio/New"

	endpoint := cfg.Endpoint
	secure := strings.HasPrefix(endpoint, "https://")

	if u, err := url.Parse(endpoint); err == nil && u.Scheme != "" {
		endpoint = u.Host
		secure = u.Scheme == "https"
	}

	client, err := mclient.New(endpoint, &mclient.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !exists {
		return nil, fmt.Errorf("%s: bucket %q does not exist", op, cfg.Bucket)
	}

	return &PreviewsStorage{
		client:  client,
		bucket:  cfg.Bucket,
		ttl:     cfg.PresignTTL,
		maxSize: cfg.MaxSizeBytes,
	}, nil
}

var _ storage.Previews = (*PreviewsStorage)(nil)
