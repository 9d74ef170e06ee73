package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type redisStore struct {
	rdb     *redis.Client
	prefix  string
	channel string
}

// NewRedisStore создаёт хранилище из URL (например, redis://:pass@host:6379/0).
// Ключи живут под prefix, изменения публикуются в channel, так что несколько
// экземпляров шлюза видят вход/выход друг друга.
func NewRedisStore(redisURL, prefix, channel string) (Store, error) {
	const op = "session/redis/NewRedisStore"

	if prefix == "" {
		prefix = "linkedfeed:storage:"
	}
	if channel == "" {
		channel = prefix + "changes"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rdb := redis.NewClient(opt)

	// Fail-fast на старте.
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &redisStore{rdb: rdb, prefix: prefix, channel: channel}, nil
}

func (s *redisStore) key(k string) string { return s.prefix + k }

func (s *redisStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.rdb.Get(ctx, s.key(key)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	return v, true, nil
}

// Set пишет значение и публикует изменение в одной транзакции.
func (s *redisStore) Set(ctx context.Context, key, value string) error {
	msg, err := json.Marshal(Change{Key: key})
	if err != nil {
		return err
	}

	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, s.key(key), value, 0)
	pipe.Publish(ctx, s.channel, msg)

	_, err = pipe.Exec(ctx)
	return err
}

func (s *redisStore) Delete(ctx context.Context, key string) error {
	n, err := s.rdb.Del(ctx, s.key(key)).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return nil
	}

	msg, err := json.Marshal(Change{Key: key, Deleted: true})
	if err != nil {
		return err
	}

	return s.rdb.Publish(ctx, s.channel, msg).Err()
}

// Watch подписывается на канал изменений. Некорректные сообщения пропускаются.
func (s *redisStore) Watch(ctx context.Context) (<-chan Change, error) {
	ps := s.rdb.Subscribe(ctx, s.channel)

	// Ждём подтверждения подписки, иначе ранние Publish потеряются.
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("session/redis/Watch: %w", err)
	}

	out := make(chan Change, watchBuffer)
	go func() {
		defer close(out)
		defer ps.Close()

		msgs := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-msgs:
				if !ok {
					return
				}

				var c Change
				if err := json.Unmarshal([]byte(m.Payload), &c); err != nil || c.Key == "" {
					continue
				}

				select {
				case out <- c:
				default:
				}
			}
		}
	}()

	return out, nil
}

func (s *redisStore) Close() error { return s.rdb.Close() }
