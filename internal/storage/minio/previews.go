package minio

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/google/uuid"
	mclient "github.com/minio/minio-go/v7"

	"github.com/pribylovaa/linked-feed/internal/models"
	"github.com/pribylovaa/linked-feed/internal/storage"
)

// Stage загружает превью и возвращает presigned GET URL на ttl.
func (s *PreviewsStorage) Stage(ctx context.Context, userID string, up models.Upload) (storage.Preview, error) {
	const op = "storage/minio/previews/Stage"

	if strings.TrimSpace(userID) == "" {
		return storage.Preview{}, fmt.Errorf("%s: %w", op, storage.ErrInvalidArgument)
	}

	ext, err := storage.Extension(up, s.maxSize)
	if err != nil {
		return storage.Preview{}, fmt.Errorf("%s: %w", op, err)
	}

	// Ключ вида previews/<userID>/<uuid>.<ext>.
	key := path.Join("previews", path.Base(userID), uuid.NewString()+ext)

	_, err = s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(up.Data), int64(len(up.Data)),
		mclient.PutObjectOptions{ContentType: up.ContentType})
	if err != nil {
		return storage.Preview{}, fmt.Errorf("%s: %w", op, err)
	}

	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, s.ttl, url.Values{})
	if err != nil {
		return storage.Preview{}, fmt.Errorf("%s: %w", op, err)
	}

	return storage.Preview{Key: key, URL: u.String()}, nil
}

// Discard удаляет превью. Ключи вне previews/ не трогаются.
func (s *PreviewsStorage) Discard(ctx context.Context, key string) error {
	const op = "storage/minio/previews/Discard"

	if !strings.HasPrefix(key, "previews/") {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	if err := s.client.RemoveObject(ctx, s.bucket, key, mclient.RemoveObjectOptions{}); err != nil {
		errResp := mclient.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.StatusCode == 404 {
			return nil
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
