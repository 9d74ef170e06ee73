package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pribylovaa/linked-feed/internal/pkg/log"
	"github.com/pribylovaa/linked-feed/internal/session"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// sessionEvent — смена сессии для view. Токен наружу не отдаётся.
type sessionEvent struct {
	Type     string    `json:"type"`
	Version  uint64    `json:"version"`
	SignedIn bool      `json:"signed_in"`
	UserID   string    `json:"user_id,omitempty"`
	User     *userView `json:"user,omitempty"`
}

func newSessionEvent(s session.Session) sessionEvent {
	ev := sessionEvent{
		Type:     "session",
		Version:  s.Version,
		SignedIn: s.SignedIn(),
		UserID:   s.UserID(),
	}
	if s.User != nil {
		u := newUserView(*s.User)
		ev.User = &u
	}

	return ev
}

// Events — GET /events: WebSocket-поток смен сессии (вход/выход здесь или
// в другом экземпляре). Первым сообщением идёт текущее состояние.
func (h *Handlers) Events(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade уже ответил клиенту.
		log.From(r.Context()).Debug("websocket upgrade failed", slog.String("err", err.Error()))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.WithoutCancel(r.Context()))
	defer cancel()

	l := log.From(ctx)
	l.Debug("events subscribed")

	updates := h.sessions.Subscribe(ctx)

	// Читатель нужен для pong и закрытия со стороны клиента.
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	send := func(v any) bool {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(v); err != nil {
			l.Debug("events write failed", slog.String("err", err.Error()))
			return false
		}
		return true
	}

	if cur, err := h.sessions.Current(ctx); err == nil {
		if !send(newSessionEvent(cur)) {
			return
		}
	}

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		case s, ok := <-updates:
			if !ok {
				return
			}
			if !send(newSessionEvent(s)) {
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
