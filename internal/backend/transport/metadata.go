package transport

import (
	"context"
	"net/http"
)

type CtxKey string

const (
	// CtxRequestID — X-Request-Id входящего запроса view (кладёт middleware.RequestID).
	CtxRequestID CtxKey = "request_id"
)

// WithMetadata — добавляет в исходящий запрос заголовки:
//   - X-Request-Id (если есть в контексте);
//   - User-Agent (если передан параметром);
//   - Accept: application/json (если не задан).
//
// Заголовки токена выставляет authscheme, не этот мидлвар.
func WithMetadata(userAgent string) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			r = r.Clone(r.Context())

			if rid := RequestID(r.Context()); rid != "" {
				r.Header.Set("X-Request-Id", rid)
			}
			if userAgent != "" {
				r.Header.Set("User-Agent", userAgent)
			}
			if r.Header.Get("Accept") == "" {
				r.Header.Set("Accept", "application/json")
			}

			return next.RoundTrip(r)
		})
	}
}

// RequestID достаёт request id из контекста.
func RequestID(ctx context.Context) string {
	rid, _ := ctx.Value(CtxRequestID).(string)
	return rid
}
