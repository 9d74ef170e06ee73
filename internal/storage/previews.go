// storage описывает хранилище превью изображений из composer.
//
// Превью нужно, чтобы у оптимистичного поста была картинка до ответа backend.
// Подтверждённый пост ссылается уже на картинку backend, превью удаляется.
package storage

import (
	"context"
	"errors"

	"github.com/pribylovaa/linked-feed/internal/models"
)

var (
	// ErrInvalidArgument — пустой файл, неподдерживаемый тип или превышен размер.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound — объекта нет (или ключ чужой).
	ErrNotFound = errors.New("preview not found")
)

// Preview — размещённое превью.
type Preview struct {
	Key string
	URL string
}

// Previews — контракт хранилища превью.
type Previews interface {
	// Stage кладёт файл под previews/<userID>/<uuid>.<ext> и возвращает presigned GET URL.
	Stage(ctx context.Context, userID string, up models.Upload) (Preview, error)
	// Discard удаляет превью; отсутствие объекта не ошибка.
	Discard(ctx context.Context, key string) error
}

// allowed — content type -> расширение ключа.
var allowed = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// Extension проверяет файл и возвращает расширение для ключа.
func Extension(up models.Upload, maxSize int64) (string, error) {
	size := int64(len(up.Data))
	if size == 0 || (maxSize > 0 && size > maxSize) {
		return "", ErrInvalidArgument
	}

	ext, ok := allowed[up.ContentType]
	if !ok {
		return "", ErrInvalidArgument
	}

	return ext, nil
}
