package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/pribylovaa/linked-feed/internal/errors"
)

func (h *Handlers) OpenPost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		apierrors.WriteError(w, r, errInvalidArgument("post id is required"))
		return
	}

	d, err := h.svc.OpenPost(r.Context(), id)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	viewer := h.viewer(r.Context())
	writeJSON(w, http.StatusOK, postDetailView{
		Post:  h.render.Post(d.Post, viewer),
		Panel: h.panelView(d.Panel, viewer),
	})
}

func (h *Handlers) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		apierrors.WriteError(w, r, errInvalidArgument("post id is required"))
		return
	}

	in, err := parsePostForm(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	p, err := h.svc.UpdatePost(r.Context(), id, in)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, h.render.Post(p, h.viewer(r.Context())))
}

func (h *Handlers) DeletePost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		apierrors.WriteError(w, r, errInvalidArgument("post id is required"))
		return
	}

	if err := h.svc.DeletePost(r.Context(), id); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// MyPosts — GET /my/posts?reset=1: следующая порция постов пользователя.
func (h *Handlers) MyPosts(w http.ResponseWriter, r *http.Request) {
	mine, err := h.svc.LoadMyPosts(r.Context(), queryBool(r, "reset"))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, myPostsView{
		Posts:   h.cards(mine.Posts, h.viewer(r.Context())),
		Page:    mine.Page,
		HasMore: mine.HasMore,
	})
}
