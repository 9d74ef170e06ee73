package session

import (
	"context"
	"sync"
)

// watchBuffer — ёмкость канала наблюдателя. Медленный наблюдатель теряет
// изменения сверх буфера; Manager всё равно перечитывает хранилище целиком.
const watchBuffer = 16

type memoryStore struct {
	mu       sync.RWMutex
	data     map[string]string
	watchers map[chan Change]struct{}
	closed   bool
}

// NewMemoryStore — хранилище в памяти процесса (session.driver=memory).
func NewMemoryStore() Store {
	return &memoryStore{
		data:     make(map[string]string),
		watchers: make(map[chan Change]struct{}),
	}
}

func (s *memoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return "", false, ErrClosed
	}

	v, ok := s.data[key]
	return v, ok, nil
}

func (s *memoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	s.data[key] = value
	s.notify(Change{Key: key})

	return nil
}

func (s *memoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	if _, ok := s.data[key]; !ok {
		return nil
	}

	delete(s.data, key)
	s.notify(Change{Key: key, Deleted: true})

	return nil
}

func (s *memoryStore) Watch(ctx context.Context) (<-chan Change, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}

	ch := make(chan Change, watchBuffer)
	s.watchers[ch] = struct{}{}

	go func() {
		<-ctx.Done()

		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.watchers[ch]; ok {
			delete(s.watchers, ch)
			close(ch)
		}
	}()

	return ch, nil
}

func (s *memoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	for ch := range s.watchers {
		close(ch)
		delete(s.watchers, ch)
	}

	return nil
}

// notify вызывается под s.mu.
func (s *memoryStore) notify(c Change) {
	for ch := range s.watchers {
		select {
		case ch <- c:
		default:
		}
	}
}
