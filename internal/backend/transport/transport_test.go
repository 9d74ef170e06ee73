package transport

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// capHandler — тестовый slog.Handler: собирает attrs последней записи.
type capHandler struct {
	base    []slog.Attr
	lastMsg string
	lastLvl slog.Level
	attrs   map[string]any
	count   int
}

func (h *capHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *capHandler) Handle(_ context.Context, r slog.Record) error {
	out := make(map[string]any, len(h.base)+8)
	for _, a := range h.base {
		out[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		out[a.Key] = a.Value.Any()
		return true
	})
	h.count++
	h.lastMsg = r.Message
	h.lastLvl = r.Level
	h.attrs = out
	return nil
}

func (h *capHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h.base = append(h.base, attrs...)
	return h
}

func (h *capHandler) WithGroup(string) slog.Handler { return h }

func okResponse(r *http.Request) *http.Response {
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader("{}")),
		Header:     http.Header{},
		Request:    r,
	}
}

func TestChain_Order(t *testing.T) {
	t.Parallel()

	var order []string
	mw := func(name string) Middleware {
		return func(next http.RoundTripper) http.RoundTripper {
			return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
				order = append(order, name)
				return next.RoundTrip(r)
			})
		}
	}

	base := RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		order = append(order, "base")
		return okResponse(r), nil
	})

	req := httptest.NewRequest(http.MethodGet, "http://backend/posts", nil)
	_, err := Chain(base, mw("m1"), mw("m2")).RoundTrip(req)
	require.NoError(t, err)
	require.Equal(t, []string{"m1", "m2", "base"}, order)
}

func TestWithMetadata_AppendsHeaders(t *testing.T) {
	t.Parallel()

	var seen http.Header
	base := RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		seen = r.Header
		return okResponse(r), nil
	})

	ctx := context.WithValue(context.Background(), CtxRequestID, "rid-1")
	req := httptest.NewRequest(http.MethodGet, "http://backend/posts", nil).WithContext(ctx)

	_, err := WithMetadata("linked-feed")(base).RoundTrip(req)
	require.NoError(t, err)
	require.Equal(t, "rid-1", seen.Get("X-Request-Id"))
	require.Equal(t, "linked-feed", seen.Get("User-Agent"))
	require.Equal(t, "application/json", seen.Get("Accept"))

	// Исходный запрос не мутирован.
	require.Empty(t, req.Header.Get("X-Request-Id"))
}

func TestWithMetadata_SkipsEmptyValues(t *testing.T) {
	t.Parallel()

	var seen http.Header
	base := RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		seen = r.Header
		return okResponse(r), nil
	})

	req := httptest.NewRequest(http.MethodGet, "http://backend/posts", nil)
	req.Header.Set("Accept", "text/plain")
	_, err := WithMetadata("")(base).RoundTrip(req)
	require.NoError(t, err)
	require.Empty(t, seen.Get("X-Request-Id"))
	require.Equal(t, "text/plain", seen.Get("Accept"))
}

func TestWithTimeout_SetsDeadline_AndCancelsOnClose(t *testing.T) {
	t.Parallel()

	var reqCtx context.Context
	base := RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		reqCtx = r.Context()
		return okResponse(r), nil
	})

	req := httptest.NewRequest(http.MethodGet, "http://backend/posts", nil)
	resp, err := WithTimeout(time.Second)(base).RoundTrip(req)
	require.NoError(t, err)

	_, ok := reqCtx.Deadline()
	require.True(t, ok)
	require.NoError(t, reqCtx.Err())

	require.NoError(t, resp.Body.Close())
	require.ErrorIs(t, reqCtx.Err(), context.Canceled)
}

func TestWithTimeout_DoesNotOverrideExistingDeadline(t *testing.T) {
	t.Parallel()

	parent, cancel := context.WithTimeout(context.Background(), 25*time.Millisecond)
	defer cancel()
	parentDL, _ := parent.Deadline()

	var childDL time.Time
	base := RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		childDL, _ = r.Context().Deadline()
		return okResponse(r), nil
	})

	req := httptest.NewRequest(http.MethodGet, "http://backend/posts", nil).WithContext(parent)
	_, err := WithTimeout(time.Second)(base).RoundTrip(req)
	require.NoError(t, err)
	require.WithinDuration(t, parentDL, childDL, time.Millisecond)
}

func TestWithTimeout_ZeroDuration_PassThrough(t *testing.T) {
	t.Parallel()

	var hasDL bool
	base := RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		_, hasDL = r.Context().Deadline()
		return okResponse(r), nil
	})

	req := httptest.NewRequest(http.MethodGet, "http://backend/posts", nil)
	_, err := WithTimeout(0)(base).RoundTrip(req)
	require.NoError(t, err)
	require.False(t, hasDL)
}

func TestWithLogging_WritesRecordWithoutToken(t *testing.T) {
	t.Parallel()

	h := &capHandler{}
	base := RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		return okResponse(r), nil
	})

	req := httptest.NewRequest(http.MethodDelete, "http://backend/comments/c1", nil)
	req.Header.Set("Authorization", "Bearer secret-token")

	_, err := WithLogging(slog.New(h))(base).RoundTrip(req)
	require.NoError(t, err)

	require.Equal(t, 1, h.count)
	require.Equal(t, "backend", h.lastMsg)
	require.Equal(t, slog.LevelInfo, h.lastLvl)
	require.Equal(t, http.MethodDelete, h.attrs["method"])
	require.Equal(t, "/comments/c1", h.attrs["path"])
	require.EqualValues(t, http.StatusOK, h.attrs["status"])
	require.Equal(t, "Bearer [REDACTED_TOKEN]", h.attrs["auth"])

	rid, _ := h.attrs["request_id"].(string)
	_, err = uuid.Parse(rid)
	require.NoError(t, err)

	for _, v := range h.attrs {
		if s, ok := v.(string); ok {
			require.NotContains(t, s, "secret-token")
		}
	}
}

func TestWithLogging_TransportErrorIsWarn(t *testing.T) {
	t.Parallel()

	h := &capHandler{}
	base := RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		return nil, io.ErrUnexpectedEOF
	})

	req := httptest.NewRequest(http.MethodGet, "http://backend/posts", nil)
	req.Header.Set("X-Request-Id", "rid-2")
	_, err := WithLogging(slog.New(h))(base).RoundTrip(req)
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)

	require.Equal(t, slog.LevelWarn, h.lastLvl)
	require.Equal(t, "rid-2", h.attrs["request_id"])
	require.Equal(t, "none", h.attrs["auth"])
	require.Contains(t, h.attrs["err"], "unexpected EOF")
}
