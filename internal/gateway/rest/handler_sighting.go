package rest

import (
	"errors"
	"io"
	"net/http"

	json "github.com/goccy/go-json"
)

const msgSightingNotFound = "Sighting not found"

type commentRequest struct {
	Comment string `json:"comment"`
}

type commentResponse struct {
	Success     bool   `json:"success"`
	UserComment string `json:"user_comment"`
}

func (h *Handler) handleGetSighting(w http.ResponseWriter, r *http.Request) {
	detail, err := h.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeServiceError(w, r, err, msgSightingNotFound)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *Handler) handleAddComment(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, ErrCodeRequestTooLarge, "Request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, ErrCodeBadRequest, "Failed to read request body")
		return
	}

	var req commentRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, ErrCodeBadRequest, "Invalid JSON body")
		return
	}

	comment, err := h.svc.AddComment(r.Context(), r.PathValue("id"), req.Comment)
	if err != nil {
		h.writeServiceError(w, r, err, msgSightingNotFound)
		return
	}

	writeJSON(w, http.StatusOK, commentResponse{Success: true, UserComment: comment})
}
