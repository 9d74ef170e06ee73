package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// Observer — приёмник метрик запроса (metrics.Metrics).
type Observer interface {
	ObserveHTTP(method, route string, status int, dur time.Duration)
}

// Metrics считает запросы по шаблону маршрута chi. nil-observer — no-op.
func Metrics(o Observer) Middleware {
	return func(next http.Handler) http.Handler {
		if o == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := newStatusWriter(w)
			start := time.Now()

			next.ServeHTTP(sw, r)

			var route string
			if rc := chi.RouteContext(r.Context()); rc != nil {
				route = rc.RoutePattern()
			}
			o.ObserveHTTP(r.Method, route, sw.code(), time.Since(start))
		})
	}
}
