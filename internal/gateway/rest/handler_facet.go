package rest

import "net/http"

// handleFacet lists the distinct values of field. notFound is returned
// with a 404 when there are none.
func (h *Handler) handleFacet(field, notFound string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		values, err := h.svc.Facet(r.Context(), field)
		if err != nil {
			h.writeServiceError(w, r, err, notFound)
			return
		}
		writeJSON(w, http.StatusOK, values)
	}
}
