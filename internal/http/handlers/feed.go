package handlers

import (
	"net/http"

	apierrors "github.com/pribylovaa/linked-feed/internal/errors"
)

// Feed — GET /feed?page=N.
func (h *Handlers) Feed(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", 1)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	out, err := h.svc.ListFeed(r.Context(), page)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, h.feedView(r.Context(), out))
}

// CreatePost — POST /feed/posts; отвечает первой страницей ленты.
func (h *Handlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	in, err := parsePostForm(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	out, err := h.svc.CreatePost(r.Context(), in)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, h.feedView(r.Context(), out))
}
