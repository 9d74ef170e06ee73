// session хранит токен и профиль текущего пользователя в key-value хранилище
// и оповещает подписчиков об изменениях (вход/выход в этом или другом экземпляре).
package session

import (
	"context"
	"errors"
)

// ErrClosed — хранилище закрыто.
var ErrClosed = errors.New("session store closed")

// Change — изменение одного ключа хранилища.
type Change struct {
	Key     string `json:"key"`
	Deleted bool   `json:"deleted,omitempty"`
}

// Store — минимальный контракт постоянного хранилища сессии.
type Store interface {
	// Get возвращает значение и признак его наличия.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set сохраняет значение и оповещает наблюдателей.
	Set(ctx context.Context, key, value string) error
	// Delete удаляет ключ и оповещает наблюдателей (если ключ был).
	Delete(ctx context.Context, key string) error
	// Watch подписывается на изменения; канал закрывается по ctx.Done() или Close.
	Watch(ctx context.Context) (<-chan Change, error)
	// Close освобождает ресурсы хранилища.
	Close() error
}
