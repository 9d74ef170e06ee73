package backend

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrUnauthenticated — backend не принял токен (401 или сообщение про login/token).
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrPermissionDenied — 403: чужой пост/комментарий.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrNotFound — 404.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument — 400/422 с сообщением валидации.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrConflict — 409 (например, email уже занят).
	ErrConflict = errors.New("conflict")
	// ErrUnavailable — 5xx или сетевой сбой.
	ErrUnavailable = errors.New("backend unavailable")
	// ErrDecode — ответ не совпал с ожидаемой схемой.
	ErrDecode = errors.New("unexpected response shape")
)

// StatusError — неуспешный HTTP-ответ backend.
// Message — поле message (или error) из тела, как его прислал backend.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend: status %d", e.Status)
	}

	return fmt.Sprintf("backend: status %d: %s", e.Status, e.Message)
}

// Unwrap отдаёт sentinel по статусу, чтобы работал errors.Is.
func (e *StatusError) Unwrap() error {
	msg := strings.ToLower(e.Message)

	switch {
	case e.Status == http.StatusUnauthorized:
		return ErrUnauthenticated
	case e.Status == http.StatusForbidden:
		return ErrPermissionDenied
	case e.Status == http.StatusNotFound:
		return ErrNotFound
	case e.Status == http.StatusConflict:
		return ErrConflict
	case e.Status == http.StatusBadRequest && (strings.Contains(msg, "login") || strings.Contains(msg, "token")):
		return ErrUnauthenticated
	case e.Status == http.StatusBadRequest || e.Status == http.StatusUnprocessableEntity:
		return ErrInvalidArgument
	case e.Status >= http.StatusInternalServerError:
		return ErrUnavailable
	default:
		return nil
	}
}

// Message достаёт сообщение backend из цепочки ошибок ("" если его нет).
func Message(err error) string {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Message
	}

	return ""
}

// RejectedAuth — предикат для authscheme.WithRetryIf: схема не принята, пробуем следующую.
func RejectedAuth(err error) bool {
	return errors.Is(err, ErrUnauthenticated)
}
