// service — контроллеры клиента: лента, комментарии, мои посты, профиль, вход.
//
// Service держит клиентское состояние (кэш комментариев, панели постов,
// текущую страницу ленты, накопленный список «моих постов») и сбрасывает его
// при смене сессии. Все сетевые вызовы идут через backend.API с токеном из
// session.Manager.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pribylovaa/linked-feed/internal/backend"
	"github.com/pribylovaa/linked-feed/internal/cache"
	"github.com/pribylovaa/linked-feed/internal/models"
	"github.com/pribylovaa/linked-feed/internal/pkg/log"
	"github.com/pribylovaa/linked-feed/internal/session"
	"github.com/pribylovaa/linked-feed/internal/storage"
)

var (
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrNotSignedIn      = errors.New("not signed in")
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrPermissionDenied = errors.New("permission denied")
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	// ErrBusy — по посту уже идёт отправка или сохранение комментария.
	ErrBusy = errors.New("busy")
	// ErrBadResponse — ответ backend не совпал со схемой.
	ErrBadResponse = errors.New("bad backend response")
	ErrUnavailable = errors.New("backend unavailable")
	ErrInternal    = errors.New("internal error")
)

// InputError — ошибка валидации с сообщением, которое можно показать пользователю.
type InputError struct{ Msg string }

func (e *InputError) Error() string { return "invalid argument: " + e.Msg }

func (e *InputError) Unwrap() error { return ErrInvalidArgument }

func invalid(msg string) error { return &InputError{Msg: msg} }

// Options — размеры страниц.
type Options struct {
	PostsLimit       int
	CommentsPageSize int
	MyPostsLimit     int
}

func (o Options) withDefaults() Options {
	if o.PostsLimit <= 0 {
		o.PostsLimit = 6
	}
	if o.CommentsPageSize <= 0 {
		o.CommentsPageSize = 5
	}
	if o.MyPostsLimit <= 0 {
		o.MyPostsLimit = 2
	}

	return o
}

type Service struct {
	api      backend.API
	sessions *session.Manager
	comments *cache.Comments
	previews storage.Previews
	opts     Options

	now   func() time.Time
	newID func() string

	mu     sync.Mutex
	panels map[string]*panelState
	feed   feedState
	mine   myPostsState
}

// New собирает сервис. previews может быть nil (превью отключены).
func New(api backend.API, sessions *session.Manager, previews storage.Previews, opts Options) *Service {
	return &Service{
		api:      api,
		sessions: sessions,
		comments: cache.NewComments(),
		previews: previews,
		opts:     opts.withDefaults(),
		now:      time.Now,
		newID:    uuid.NewString,
		panels:   make(map[string]*panelState),
	}
}

// Watch сбрасывает состояние при каждой смене сессии, пока ctx жив.
func (s *Service) Watch(ctx context.Context) {
	for sess := range s.sessions.Subscribe(ctx) {
		log.From(ctx).Info("session changed, client state reset",
			slog.Bool("signed_in", sess.SignedIn()),
			slog.Uint64("version", sess.Version),
		)
		s.Reset()
	}
}

// Reset выбрасывает кэш комментариев, панели, ленту и «мои посты».
func (s *Service) Reset() {
	s.comments.Reset()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.panels = make(map[string]*panelState)
	s.feed = feedState{}
	s.mine = myPostsState{}
}

// auth — сессия для запроса в backend; истёкший токен отсекается до сети.
func (s *Service) auth(ctx context.Context) (session.Session, error) {
	sess, err := s.sessions.Require(ctx)
	if err != nil {
		return session.Session{}, mapError(err)
	}

	return sess, nil
}

// mapError переводит ошибки backend/session в ошибки сервиса.
// Исходная ошибка остаётся в цепочке (для backend.Message).
func mapError(err error) error {
	var sentinel error

	switch {
	case err == nil:
		return nil
	case isServiceError(err),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, session.ErrNotSignedIn):
		sentinel = ErrNotSignedIn
	case errors.Is(err, session.ErrTokenExpired), errors.Is(err, backend.ErrUnauthenticated):
		sentinel = ErrUnauthenticated
	case errors.Is(err, backend.ErrPermissionDenied):
		sentinel = ErrPermissionDenied
	case errors.Is(err, backend.ErrNotFound):
		sentinel = ErrNotFound
	case errors.Is(err, backend.ErrInvalidArgument), errors.Is(err, storage.ErrInvalidArgument):
		sentinel = ErrInvalidArgument
	case errors.Is(err, backend.ErrConflict):
		sentinel = ErrConflict
	case errors.Is(err, backend.ErrDecode):
		sentinel = ErrBadResponse
	case errors.Is(err, backend.ErrUnavailable):
		sentinel = ErrUnavailable
	default:
		sentinel = ErrInternal
	}

	return fmt.Errorf("%w: %w", sentinel, err)
}

func isServiceError(err error) bool {
	for _, e := range []error{
		ErrInvalidArgument, ErrNotSignedIn, ErrUnauthenticated, ErrPermissionDenied,
		ErrNotFound, ErrConflict, ErrBusy, ErrBadResponse, ErrUnavailable, ErrInternal,
	} {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// author — подпись для оптимистичной записи из профиля сессии.
func author(sess session.Session) (id, name, avatar string) {
	id = sess.UserID()
	name = "You"
	if sess.User != nil {
		if n := sess.User.DisplayName(); n != "" {
			name = n
		}
		avatar = sess.User.Photo
	}

	return id, name, avatar
}

// dedupePosts оставляет первое вхождение каждого id; записи без id отбрасываются.
func dedupePosts(in []models.Post) []models.Post {
	seen := make(map[string]struct{}, len(in))
	out := make([]models.Post, 0, len(in))
	for _, p := range in {
		if p.ID == "" {
			continue
		}
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}

	return out
}
