package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/pribylovaa/linked-feed/internal/models"
	"github.com/pribylovaa/linked-feed/internal/render"
	"github.com/pribylovaa/linked-feed/internal/service"
	"github.com/pribylovaa/linked-feed/internal/session"
)

// maxUpload — предел multipart-формы (фото профиля, изображение поста).
const maxUpload = 10 << 20

// Handlers агрегирует зависимости обработчиков view.
type Handlers struct {
	svc      *service.Service
	sessions *session.Manager
	render   *render.Renderer
	upgrader websocket.Upgrader
}

func New(svc *service.Service, sessions *session.Manager, r *render.Renderer) *Handlers {
	if r == nil {
		r = render.New()
	}

	return &Handlers{
		svc:      svc,
		sessions: sessions,
		render:   r,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	return dec.Decode(value)
}

// errInvalidArgument — локальная ошибка разбора запроса.
func errInvalidArgument(msg string) error {
	return &service.InputError{Msg: msg}
}

// viewer — id текущего пользователя для can_edit; пустой, если сессии нет.
func (h *Handlers) viewer(ctx context.Context) string {
	sess, err := h.sessions.Current(ctx)
	if err != nil {
		return ""
	}

	return sess.UserID()
}

// queryInt — неотрицательное целое из query; пустое значение — def.
func queryInt(r *http.Request, key string, def int) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, errInvalidArgument(key + " must be a non-negative integer")
	}

	return n, nil
}

func queryBool(r *http.Request, key string) bool {
	switch strings.ToLower(r.URL.Query().Get(key)) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}

// readUpload достаёт файл из multipart-поля; отсутствие поля — (nil, nil).
func readUpload(r *http.Request, field string) (*models.Upload, error) {
	f, hdr, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", field, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", field, err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	return &models.Upload{
		Filename:    hdr.Filename,
		ContentType: contentType(hdr, data),
		Data:        data,
	}, nil
}

func contentType(hdr *multipart.FileHeader, data []byte) string {
	if ct := hdr.Header.Get("Content-Type"); ct != "" && ct != "application/octet-stream" {
		return ct
	}

	return http.DetectContentType(data)
}

// parsePostForm — composer поста: multipart (body, image) или JSON {"body": ...}.
func parsePostForm(r *http.Request) (models.NewPost, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUpload); err != nil {
			return models.NewPost{}, errInvalidArgument("malformed multipart form")
		}

		img, err := readUpload(r, "image")
		if err != nil {
			return models.NewPost{}, errInvalidArgument("malformed image")
		}

		return models.NewPost{Body: r.FormValue("body"), Image: img}, nil
	}

	var in struct {
		Body string `json:"body"`
	}
	if err := decodeStrict(r, &in); err != nil {
		return models.NewPost{}, errInvalidArgument("malformed request body")
	}

	return models.NewPost{Body: in.Body}, nil
}
