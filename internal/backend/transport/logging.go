package transport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/pribylovaa/linked-feed/internal/pkg/log"
	"github.com/pribylovaa/linked-feed/internal/pkg/redact"
)

// WithLogging — логирование исходящих запросов.
// Поведение:
//   - берёт X-Request-Id из запроса (или генерирует новый и добавляет);
//   - пишет одну финальную запись уровня Info: msg="backend", method, path, status, dur, auth;
//   - при ошибке транспорта — запись уровня Warn с err.
//
// Безопасность: не логирует тело и значения заголовков с токеном.
func WithLogging(base *slog.Logger) Middleware {
	if base == nil {
		base = slog.Default()
	}

	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			start := time.Now()

			rid := r.Header.Get("X-Request-Id")
			if rid == "" {
				rid = uuid.NewString()
				r = r.Clone(r.Context())
				r.Header.Set("X-Request-Id", rid)
			}

			l := log.From(r.Context())
			if l == slog.Default() {
				l = base
			}
			l = l.With(
				slog.String("request_id", rid),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
			)

			auth := authLabel(r.Header)

			resp, err := next.RoundTrip(r)
			if err != nil {
				l.Warn("backend",
					slog.String("auth", auth),
					slog.Duration("dur", time.Since(start)),
					slog.String("err", err.Error()),
				)
				return nil, err
			}

			l.Info("backend",
				slog.String("auth", auth),
				slog.Int("status", resp.StatusCode),
				slog.Duration("dur", time.Since(start)),
			)

			return resp, nil
		})
	}
}

// authLabel — какой вариант передачи токена несёт запрос (без самого токена).
func authLabel(h http.Header) string {
	if h.Get("token") != "" {
		return "token " + redact.Token()
	}

	if v := h.Get("Authorization"); v != "" {
		return redact.Header("Authorization", v)
	}

	return "none"
}
