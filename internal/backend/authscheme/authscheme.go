// authscheme описывает, как backend ожидает получить токен, и перебирает
// варианты в заданном порядке, пока один из них не будет принят.
//
// Backend не документирует контракт: в разное время он принимал токен в
// собственном заголовке "token", в "Authorization: Bearer <t>" и в "Authorization: <t>".
// Negotiator запоминает победившую схему и пробует её первой в следующий раз;
// победа схемы, отличной от первичной (первой в конфиге), пишется в лог как
// config-mismatch.
package authscheme

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/pribylovaa/linked-feed/internal/pkg/log"
)

// Scheme — один вариант передачи токена.
type Scheme string

const (
	// Token — собственный заголовок backend: "token: <t>".
	Token Scheme = "token"
	// Bearer — "Authorization: Bearer <t>".
	Bearer Scheme = "bearer"
	// Raw — "Authorization: <t>".
	Raw Scheme = "raw"
)

// ErrUnknownScheme — в конфиге указана незнакомая схема.
var ErrUnknownScheme = errors.New("unknown auth scheme")

// Apply выставляет заголовок с токеном. Заголовки других схем удаляются,
// чтобы повторная попытка не несла два варианта сразу.
func (s Scheme) Apply(h http.Header, token string) {
	h.Del("token")
	h.Del("Authorization")

	switch s {
	case Token:
		h.Set("token", token)
	case Bearer:
		h.Set("Authorization", "Bearer "+token)
	case Raw:
		h.Set("Authorization", token)
	}
}

// Parse разбирает имя схемы из конфига.
func Parse(name string) (Scheme, error) {
	switch s := Scheme(strings.ToLower(strings.TrimSpace(name))); s {
	case Token, Bearer, Raw:
		return s, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownScheme, name)
	}
}

// Attempt выполняет один запрос с применённой схемой.
type Attempt func(ctx context.Context, s Scheme) error

// MismatchHook вызывается, когда запрос принят схемой, отличной от первичной.
type MismatchHook func(won, primary Scheme)

// Negotiator — стратегия перебора схем в порядке приоритета.
type Negotiator struct {
	order     []Scheme
	retryIf   func(error) bool
	onWin     MismatchHook
	mu        sync.RWMutex
	preferred Scheme
}

// Option настраивает Negotiator.
type Option func(*Negotiator)

// WithRetryIf задаёт предикат «схема не принята, пробуем следующую».
// По умолчанию ни одна ошибка не ведёт к повтору.
func WithRetryIf(fn func(error) bool) Option {
	return func(n *Negotiator) { n.retryIf = fn }
}

// WithMismatchHook подключает наблюдателя (например, метрики).
func WithMismatchHook(fn MismatchHook) Option {
	return func(n *Negotiator) { n.onWin = fn }
}

// New собирает Negotiator из имён схем в порядке приоритета.
// Повторы игнорируются; пустой список — ошибка.
func New(names []string, opts ...Option) (*Negotiator, error) {
	const op = "backend/authscheme/New"

	seen := make(map[Scheme]struct{}, len(names))
	order := make([]Scheme, 0, len(names))
	for _, name := range names {
		s, err := Parse(name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		order = append(order, s)
	}

	if len(order) == 0 {
		return nil, fmt.Errorf("%s: empty scheme list", op)
	}

	n := &Negotiator{
		order:   order,
		retryIf: func(error) bool { return false },
	}
	for _, opt := range opts {
		opt(n)
	}

	return n, nil
}

// Primary — схема, которую конфиг считает документированной.
func (n *Negotiator) Primary() Scheme { return n.order[0] }

// Preferred — последняя принятая backend схема (или первичная).
func (n *Negotiator) Preferred() Scheme {
	n.mu.RLock()
	defer n.mu.RUnlock()

	if n.preferred != "" {
		return n.preferred
	}

	return n.order[0]
}

// Order — порядок попыток: сначала запомненная схема, затем остальные по приоритету.
func (n *Negotiator) Order() []Scheme {
	first := n.Preferred()

	out := make([]Scheme, 0, len(n.order))
	out = append(out, first)
	for _, s := range n.order {
		if s != first {
			out = append(out, s)
		}
	}

	return out
}

// Do перебирает схемы, пока attempt возвращает ошибку, для которой retryIf == true.
// Любой другой исход (успех, 403, 404, сетевая ошибка) завершает перебор.
// Если все схемы отвергнуты — возвращается ошибка последней попытки.
func (n *Negotiator) Do(ctx context.Context, attempt Attempt) (Scheme, error) {
	var lastErr error

	for _, s := range n.Order() {
		err := attempt(ctx, s)
		if err != nil && n.retryIf(err) {
			log.From(ctx).Debug("auth scheme rejected", slog.String("scheme", string(s)))
			lastErr = err
			continue
		}

		if err == nil {
			n.remember(ctx, s)
		}

		return s, err
	}

	return "", lastErr
}

func (n *Negotiator) remember(ctx context.Context, s Scheme) {
	n.mu.Lock()
	changed := n.preferred != s
	n.preferred = s
	n.mu.Unlock()

	primary := n.order[0]
	if s == primary || !changed {
		return
	}

	log.From(ctx).Warn("config-mismatch",
		slog.String("diagnostic", "auth scheme"),
		slog.String("accepted", string(s)),
		slog.String("configured_primary", string(primary)),
	)

	if n.onWin != nil {
		n.onWin(s, primary)
	}
}
