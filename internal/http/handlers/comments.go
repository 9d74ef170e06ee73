package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/pribylovaa/linked-feed/internal/errors"
	"github.com/pribylovaa/linked-feed/internal/service"
)

type commentInput struct {
	Text string `json:"text"`
}

// writePanel — панель или ошибка; сообщение ошибки берётся из панели, если оно там есть.
func (h *Handlers) writePanel(w http.ResponseWriter, r *http.Request, status int, p service.Panel, err error) {
	if err != nil {
		apierrors.WriteErrorMessage(w, r, err, p.Error)
		return
	}

	writeJSON(w, status, h.panelView(p, h.viewer(r.Context())))
}

// LoadComments — GET /posts/{id}/comments?page=&append=&refresh=.
func (h *Handlers) LoadComments(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "id")

	page, err := queryInt(r, "page", 1)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	var p service.Panel
	if queryBool(r, "refresh") {
		p, err = h.svc.RefreshComments(r.Context(), postID, page)
	} else {
		p, err = h.svc.LoadPage(r.Context(), postID, page, queryBool(r, "append"))
	}

	h.writePanel(w, r, http.StatusOK, p, err)
}

// SubmitComment — пустой text означает «отправить буфер composer».
func (h *Handlers) SubmitComment(w http.ResponseWriter, r *http.Request) {
	var in commentInput
	if r.ContentLength != 0 {
		if err := decodeStrict(r, &in); err != nil {
			apierrors.WriteError(w, r, errInvalidArgument("malformed request body"))
			return
		}
	}

	p, err := h.svc.SubmitComment(r.Context(), chi.URLParam(r, "id"), in.Text)
	h.writePanel(w, r, http.StatusOK, p, err)
}

func (h *Handlers) SetDraft(w http.ResponseWriter, r *http.Request) {
	var in commentInput
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, errInvalidArgument("malformed request body"))
		return
	}

	h.writePanel(w, r, http.StatusOK, h.svc.SetDraft(chi.URLParam(r, "id"), in.Text), nil)
}

func (h *Handlers) StartEdit(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.StartEdit(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "cid"))
	h.writePanel(w, r, http.StatusOK, p, err)
}

func (h *Handlers) CancelEdit(w http.ResponseWriter, r *http.Request) {
	h.writePanel(w, r, http.StatusOK, h.svc.CancelEdit(chi.URLParam(r, "id")), nil)
}

func (h *Handlers) DeleteComment(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.DeleteComment(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "cid"))
	h.writePanel(w, r, http.StatusOK, p, err)
}
