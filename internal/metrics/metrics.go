// metrics — счётчики и гистограммы Prometheus шлюза.
//
// Входящие HTTP-запросы размечаются шаблоном маршрута chi (не сырым путём),
// вызовы backend — методом и статусом, чтобы id постов не раздували кардинальность.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pribylovaa/linked-feed/internal/backend/authscheme"
	"github.com/pribylovaa/linked-feed/internal/backend/transport"
)

const namespace = "linkedfeed"

type Metrics struct {
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	backendRequests *prometheus.CounterVec
	backendDuration *prometheus.HistogramVec
	authMismatch    *prometheus.CounterVec
}

// New регистрирует метрики в reg (nil — prometheus.DefaultRegisterer).
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests served to the view.",
		}, []string{"method", "route", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request handling time.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		backendRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "backend",
			Name:      "requests_total",
			Help:      "Requests sent to the REST backend.",
		}, []string{"method", "code"}),
		backendDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "backend",
			Name:      "request_duration_seconds",
			Help:      "REST backend round trip time.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		authMismatch: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "backend",
			Name:      "auth_scheme_mismatch_total",
			Help:      "Auth scheme accepted by the backend differs from the configured primary.",
		}, []string{"accepted", "primary"}),
	}

	reg.MustRegister(m.httpRequests, m.httpDuration, m.backendRequests, m.backendDuration, m.authMismatch)

	return m
}

// ObserveHTTP — один обработанный запрос view. Пустой route — маршрут не найден.
func (m *Metrics) ObserveHTTP(method, route string, status int, dur time.Duration) {
	if route == "" {
		route = "unmatched"
	}

	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(dur.Seconds())
}

// AuthMismatch подходит как authscheme.MismatchHook.
func (m *Metrics) AuthMismatch(accepted, primary authscheme.Scheme) {
	m.authMismatch.WithLabelValues(string(accepted), string(primary)).Inc()
}

// Backend — мидлвар транспорта backend. Ошибка транспорта считается как code="error".
func (m *Metrics) Backend() transport.Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return transport.RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			start := time.Now()

			resp, err := next.RoundTrip(r)

			code := "error"
			if err == nil {
				code = strconv.Itoa(resp.StatusCode)
			}
			m.backendRequests.WithLabelValues(r.Method, code).Inc()
			m.backendDuration.WithLabelValues(r.Method).Observe(time.Since(start).Seconds())

			return resp, err
		})
	}
}
