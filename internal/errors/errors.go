// errors стандартизирует ответы об ошибках HTTP-слоя feed-gateway.
// На вход он принимает ошибку сервисного слоя (её цепочка может нести
// backend.StatusError), а на выход даёт:
//   - корректный HTTP-статус;
//   - стабильный машиночитаемый code;
//   - сообщение, которое view может показать пользователю как есть.
package errors

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/pribylovaa/linked-feed/internal/backend"
	"github.com/pribylovaa/linked-feed/internal/backend/transport"
	"github.com/pribylovaa/linked-feed/internal/pkg/log"
	"github.com/pribylovaa/linked-feed/internal/service"
)

// Нестандартный код часто используемый для "клиент закрыл соединение".
const StatusClientClosedRequest = 499

// APIError — единый формат для view.
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse — корневой объект в ответе.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// ToHTTP конвертирует ошибку сервиса в HTTP-статус и ответ для view.
//
// err == nil — программная ошибка вызова: 500/internal, чтобы не послать
// "200 OK" с телом ошибки.
func ToHTTP(err error) (int, ErrorResponse) {
	status, code, msg := base(err)

	return status, ErrorResponse{Error: APIError{Code: code, Message: msg}}
}

// WriteError — хелпер для HTTP-хендлеров: статус, тело и request_id.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	WriteErrorMessage(w, r, err, "")
}

// WriteErrorMessage — как WriteError, но с заранее подготовленным сообщением
// (например, из панели комментариев). Пустой msg — сообщение по умолчанию.
func WriteErrorMessage(w http.ResponseWriter, r *http.Request, err error, msg string) {
	status, resp := ToHTTP(err)
	if msg != "" {
		resp.Error.Message = msg
	}

	resp.Error.RequestID = transport.RequestID(r.Context())
	if resp.Error.RequestID == "" {
		resp.Error.RequestID = r.Header.Get("X-Request-Id")
	}

	if status >= http.StatusInternalServerError && err != nil {
		log.From(r.Context()).Warn("request failed",
			slog.Int("status", status),
			slog.String("code", resp.Error.Code),
			slog.String("err", err.Error()),
		)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

func base(err error) (int, string, string) {
	var input *service.InputError

	switch {
	case err == nil:
		return http.StatusInternalServerError, "internal", "internal error"
	case errors.As(err, &input):
		return http.StatusBadRequest, "invalid_argument", input.Msg
	case errors.Is(err, service.ErrInvalidArgument):
		return http.StatusBadRequest, "invalid_argument", orDefault(backend.Message(err), "Invalid request.")
	case errors.Is(err, service.ErrNotSignedIn):
		return http.StatusUnauthorized, "not_signed_in", "Please log in to continue."
	case errors.Is(err, service.ErrUnauthenticated):
		return http.StatusUnauthorized, "unauthenticated", "Your session is invalid or expired. Please log in again."
	case errors.Is(err, service.ErrPermissionDenied):
		return http.StatusForbidden, "permission_denied", "You can only modify your own content."
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "not_found", "Not found."
	case errors.Is(err, service.ErrBusy):
		return http.StatusConflict, "busy", "Please wait for the previous request to finish."
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict, "already_exists", orDefault(backend.Message(err), "Already exists.")
	case errors.Is(err, context.Canceled):
		return StatusClientClosedRequest, "canceled", "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "deadline_exceeded", "The server took too long to respond. Please try again."
	case errors.Is(err, service.ErrBadResponse):
		return http.StatusBadGateway, "bad_response", "Unexpected response from the server. Please try again."
	case errors.Is(err, service.ErrUnavailable):
		return http.StatusServiceUnavailable, "unavailable", "The server is unavailable. Please try again later."
	default:
		return http.StatusInternalServerError, "internal", "Something went wrong. Please try again."
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}

	return s
}
