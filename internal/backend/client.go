// backend — клиент стороннего REST backend linked-posts.
//
// Каждый эндпоинт декодируется в свою схему ответа (schema.go) за один шаг;
// несовпадение формы — ErrDecode. Неуспешные статусы превращаются в
// *StatusError, который через errors.Is сводится к sentinel-ошибкам пакета.
//
// Для запросов с токеном схема передачи выбирается authscheme.Negotiator:
// тело запроса буферизуется, поэтому каждая попытка отправляет те же байты.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pribylovaa/linked-feed/internal/backend/authscheme"
)

// maxBody — предел чтения тела ответа.
const maxBody = 10 << 20

// Client — реализация API поверх net/http.
type Client struct {
	base *url.URL
	http *http.Client
	auth *authscheme.Negotiator
}

var _ API = (*Client)(nil)

// New создаёт клиента. hc собирается в main (transport-мидлвары, otelhttp);
// nil — http.DefaultClient.
func New(baseURL string, hc *http.Client, auth *authscheme.Negotiator) (*Client, error) {
	const op = "backend/client/New"

	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%s: base url %q must be absolute", op, baseURL)
	}

	if auth == nil {
		return nil, fmt.Errorf("%s: auth negotiator is required", op)
	}

	if hc == nil {
		hc = http.DefaultClient
	}

	return &Client{base: u, http: hc, auth: auth}, nil
}

// request — один вызов backend.
type request struct {
	method      string
	path        string
	query       url.Values
	body        []byte
	contentType string
	// token == "" — запрос без авторизации.
	token string
}

func jsonRequest(method, path string, payload any) (request, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return request{}, err
	}

	return request{method: method, path: path, body: b, contentType: "application/json"}, nil
}

// do выполняет запрос и декодирует ответ в out (может быть nil).
func (c *Client) do(ctx context.Context, req request, out response) error {
	if req.token == "" {
		return c.send(ctx, req, "", out)
	}

	_, err := c.auth.Do(ctx, func(ctx context.Context, s authscheme.Scheme) error {
		return c.send(ctx, req, s, out)
	})

	return err
}

func (c *Client) send(ctx context.Context, req request, scheme authscheme.Scheme, out response) error {
	raw := c.base.EscapedPath() + req.path
	path, err := url.PathUnescape(raw)
	if err != nil {
		return err
	}

	u := *c.base
	u.Path, u.RawPath = path, raw
	if len(req.query) > 0 {
		u.RawQuery = req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		body = bytes.NewReader(req.body)
	}

	r, err := http.NewRequestWithContext(ctx, req.method, u.String(), body)
	if err != nil {
		return err
	}
	if req.contentType != "" {
		r.Header.Set("Content-Type", req.contentType)
	}
	if scheme != "" {
		scheme.Apply(r.Header, req.token)
	}

	resp, err := c.http.Do(r)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var eb errorBody
		_ = json.Unmarshal(data, &eb)

		return &StatusError{Status: resp.StatusCode, Message: eb.text()}
	}

	if out == nil {
		return nil
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return fmt.Errorf("%w: empty body", ErrDecode)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}

	return out.check()
}
