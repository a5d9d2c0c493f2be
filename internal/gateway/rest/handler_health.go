package rest

import "net/http"

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Ping(r.Context()); err != nil {
		h.logger.Warn("Health check failed", "error", err)
		writeError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, "Store unreachable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
