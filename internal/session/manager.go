package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/pribylovaa/linked-feed/internal/models"
	"github.com/pribylovaa/linked-feed/internal/pkg/log"
)

var (
	// ErrNotSignedIn — токена нет ни под одним из ключей.
	ErrNotSignedIn = errors.New("not signed in")
	// ErrTokenExpired — exp токена в прошлом; запрос в backend не отправляется.
	ErrTokenExpired = errors.New("token expired")
)

// Ключи хранилища. Токен читается из нескольких вариантов ключей, которые
// в разное время писали клиенты; записывается всегда KeyToken.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

var tokenKeys = []string{KeyToken, "Token", "userToken", "authToken"}

// Session — снимок состояния входа.
type Session struct {
	Token   string
	User    *models.User
	Claims  Claims
	Version uint64
}

// SignedIn — есть токен.
func (s Session) SignedIn() bool { return s.Token != "" }

// UserID — id из токена, иначе из сохранённого профиля.
func (s Session) UserID() string {
	if s.Claims.UserID != "" {
		return s.Claims.UserID
	}
	if s.User != nil {
		return s.User.ID
	}

	return ""
}

// Manager — явный объект сессии поверх Store с единственной точкой подписки.
type Manager struct {
	store Store
	now   func() time.Time

	mu      sync.Mutex
	version uint64
	subs    map[chan Session]struct{}
}

// NewManager создаёт менеджер. Для получения изменений нужно запустить Run.
func NewManager(store Store) *Manager {
	return &Manager{
		store: store,
		now:   time.Now,
		subs:  make(map[chan Session]struct{}),
	}
}

// Current читает сессию из хранилища. Отсутствие токена — не ошибка.
func (m *Manager) Current(ctx context.Context) (Session, error) {
	const op = "session/manager/Current"

	m.mu.Lock()
	s := Session{Version: m.version}
	m.mu.Unlock()

	for _, k := range tokenKeys {
		v, ok, err := m.store.Get(ctx, k)
		if err != nil {
			return Session{}, fmt.Errorf("%s: %w", op, err)
		}
		if ok {
			if t := cleanToken(v); t != "" {
				s.Token = t
				break
			}
		}
	}

	raw, ok, err := m.store.Get(ctx, KeyUser)
	if err != nil {
		return Session{}, fmt.Errorf("%s: %w", op, err)
	}
	if ok {
		u, token := decodeUser(raw)
		s.User = u
		if s.Token == "" {
			s.Token = token
		}
	}

	if s.Token == "" {
		return s, nil
	}

	c, err := ParseClaims(s.Token)
	if err != nil {
		log.From(ctx).Debug("token claims unavailable", slog.String("op", op), slog.String("err", err.Error()))
	}
	s.Claims = c

	return s, nil
}

// Require — текущая сессия, пригодная для запроса в backend.
func (m *Manager) Require(ctx context.Context) (Session, error) {
	s, err := m.Current(ctx)
	if err != nil {
		return Session{}, err
	}

	if !s.SignedIn() {
		return Session{}, ErrNotSignedIn
	}
	if s.Claims.Expired(m.now()) {
		return Session{}, ErrTokenExpired
	}

	return s, nil
}

// SignIn сохраняет токен и (если есть) профиль.
func (m *Manager) SignIn(ctx context.Context, token string, user *models.User) error {
	const op = "session/manager/SignIn"

	token = cleanToken(token)
	if token == "" {
		return fmt.Errorf("%s: %w", op, ErrNotSignedIn)
	}

	if err := m.store.Set(ctx, KeyToken, token); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if user != nil {
		u := *user
		u.Token = token
		if err := m.SaveUser(ctx, u); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	return nil
}

// SaveUser перезаписывает сохранённый профиль.
func (m *Manager) SaveUser(ctx context.Context, user models.User) error {
	const op = "session/manager/SaveUser"

	b, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := m.store.Set(ctx, KeyUser, string(b)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// SignOut удаляет токен под всеми вариантами ключей и профиль.
func (m *Manager) SignOut(ctx context.Context) error {
	const op = "session/manager/SignOut"

	for _, k := range append(append([]string{}, tokenKeys...), KeyUser) {
		if err := m.store.Delete(ctx, k); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	return nil
}

// Subscribe — подписка на новые снимки сессии. Канал закрывается по ctx.Done().
func (m *Manager) Subscribe(ctx context.Context) <-chan Session {
	ch := make(chan Session, 1)

	m.mu.Lock()
	m.subs[ch] = struct{}{}
	m.mu.Unlock()

	go func() {
		<-ctx.Done()

		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs, ch)
		close(ch)
	}()

	return ch
}

// Run слушает хранилище и рассылает снимки подписчикам, пока ctx жив.
// Интересуют только ключи токена и профиля.
func (m *Manager) Run(ctx context.Context) error {
	const op = "session/manager/Run"

	changes, err := m.store.Watch(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case c, ok := <-changes:
			if !ok {
				return nil
			}
			if !watched(c.Key) {
				continue
			}

			m.mu.Lock()
			m.version++
			m.mu.Unlock()

			s, err := m.Current(ctx)
			if err != nil {
				log.From(ctx).Warn("session reload failed", slog.String("op", op), slog.String("err", err.Error()))
				continue
			}

			log.From(ctx).Debug("session changed",
				slog.String("key", c.Key),
				slog.Bool("signed_in", s.SignedIn()),
				slog.Uint64("version", s.Version),
			)
			m.publish(s)
		}
	}
}

// publish — последний снимок важнее промежуточных: старый вытесняется.
func (m *Manager) publish(s Session) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for ch := range m.subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- s:
		default:
		}
	}
}

func watched(key string) bool {
	if key == KeyUser {
		return true
	}
	for _, k := range tokenKeys {
		if k == key {
			return true
		}
	}

	return false
}

// cleanToken снимает кавычки (значение могло быть записано как JSON-строка)
// и отбрасывает "null"/"undefined".
func cleanToken(v string) string {
	v = strings.TrimSpace(v)
	if len(v) >= 2 && v[0] == '"' && v[len(v)-1] == '"' {
		v = v[1 : len(v)-1]
	}

	switch v {
	case "null", "undefined":
		return ""
	}

	return v
}

// storedUser — профиль в хранилище; токен может лежать в корне или в data.
type storedUser struct {
	models.User
	Data *struct {
		Token string `json:"token"`
	} `json:"data,omitempty"`
}

func decodeUser(raw string) (*models.User, string) {
	if s := strings.TrimSpace(raw); s == "" || s == "null" {
		return nil, ""
	}

	var su storedUser
	if err := json.Unmarshal([]byte(raw), &su); err != nil {
		return nil, ""
	}

	token := cleanToken(su.Token)
	if token == "" && su.Data != nil {
		token = cleanToken(su.Data.Token)
	}

	u := su.User
	return &u, token
}
