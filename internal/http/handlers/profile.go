package handlers

import (
	"net/http"

	apierrors "github.com/pribylovaa/linked-feed/internal/errors"
)

func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	me, err := h.svc.Me(r.Context())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newUserView(me))
}

// UploadPhoto — multipart с полем photo.
func (h *Handlers) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		apierrors.WriteError(w, r, errInvalidArgument("malformed multipart form"))
		return
	}

	photo, err := readUpload(r, "photo")
	if err != nil || photo == nil {
		apierrors.WriteError(w, r, errInvalidArgument("photo is required"))
		return
	}

	me, err := h.svc.UploadPhoto(r.Context(), *photo)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newUserView(me))
}

func (h *Handlers) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Password    string `json:"password"`
		NewPassword string `json:"newPassword"`
		RePassword  string `json:"rePassword"`
	}
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, errInvalidArgument("malformed request body"))
		return
	}

	if err := h.svc.ChangePassword(r.Context(), in.Password, in.NewPassword, in.RePassword); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Password changed. Please log in again."})
}
