package handlers

import (
	"net/http"

	apierrors "github.com/pribylovaa/linked-feed/internal/errors"
	"github.com/pribylovaa/linked-feed/internal/models"
	"github.com/pribylovaa/linked-feed/internal/render"
	"github.com/pribylovaa/linked-feed/internal/service"
)

// userView — профиль для view: аватар с запасным вариантом из инициалов.
type userView struct {
	models.User
	Avatar string `json:"avatar"`
}

func newUserView(u models.User) userView {
	u.Token = ""
	return userView{User: u, Avatar: render.Avatar(u.Photo, u.DisplayName())}
}

func (h *Handlers) SignIn(w http.ResponseWriter, r *http.Request) {
	var in models.Credentials
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, errInvalidArgument("malformed request body"))
		return
	}

	u, err := h.svc.SignIn(r.Context(), in)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newUserView(u))
}

func (h *Handlers) SignUp(w http.ResponseWriter, r *http.Request) {
	var in models.SignUp
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, errInvalidArgument("malformed request body"))
		return
	}

	if err := h.svc.SignUp(r.Context(), in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"message": "success"})
}

func (h *Handlers) SignOut(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.SignOut(r.Context()); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// PasswordCheck — чек-лист сложности для формы регистрации (без сети).
func (h *Handlers) PasswordCheck(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Password string `json:"password"`
	}
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, errInvalidArgument("malformed request body"))
		return
	}

	checks := service.CheckPassword(in.Password)
	writeJSON(w, http.StatusOK, struct {
		service.PasswordChecks
		Strong bool `json:"strong"`
	}{checks, checks.Strong()})
}
