package rest

import (
	"net/http"

	"github.com/syntrixbase/ufoatlas/internal/server"
	"github.com/syntrixbase/ufoatlas/internal/sighting"
)

const (
	msgNoSearchTerm  = "No search term provided"
	msgInvalidNearby = "Invalid latitude, longitude, radius, or page"
	msgInvalidPage   = "Invalid page"
)

func (h *Handler) handleSearchWord(w http.ResponseWriter, r *http.Request) {
	// A missing term wins over any other parameter problem.
	filter, err := sighting.NewKeywordFilter(r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrCodeBadRequest, msgNoSearchTerm)
		return
	}

	var params searchWordParams
	if err := decodeQuery(&params, r.URL.Query()); err != nil {
		h.logger.Debug("Search word: invalid query parameters", "error", err)
		writeError(w, http.StatusBadRequest, ErrCodeBadRequest, msgInvalidPage)
		return
	}

	h.paginate(w, r, filter, pageOrDefault(params.Page))
}

func (h *Handler) handleSearchNearby(w http.ResponseWriter, r *http.Request) {
	var params searchNearbyParams
	if err := decodeQuery(&params, r.URL.Query()); err != nil {
		h.logger.Debug("Search nearby: invalid query parameters", "error", err)
		writeError(w, http.StatusBadRequest, ErrCodeBadRequest, msgInvalidNearby)
		return
	}

	filter, err := sighting.NewNearFilter(*params.Latitude, *params.Longitude, *params.Radius)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrCodeBadRequest, msgInvalidNearby)
		return
	}

	h.paginate(w, r, filter, pageOrDefault(params.Page))
}

// handleFieldSearch returns a handler running a substring search on field
// with the {value} path segment as the term.
func (h *Handler) handleFieldSearch(field string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params pageParams
		if err := decodeQuery(&params, r.URL.Query()); err != nil {
			writeError(w, http.StatusBadRequest, ErrCodeBadRequest, msgInvalidPage)
			return
		}

		filter, err := sighting.NewFieldFilter(field, r.PathValue("value"))
		if err != nil {
			writeError(w, http.StatusBadRequest, ErrCodeBadRequest, "Search term is required")
			return
		}

		h.paginate(w, r, filter, pageOrDefault(params.Page))
	}
}

func (h *Handler) paginate(w http.ResponseWriter, r *http.Request, filter sighting.Filter, page int) {
	result, err := h.svc.Paginate(r.Context(), filter, page, sighting.Sort{})
	if err != nil {
		h.writeServiceError(w, r, err, "Sighting not found")
		return
	}

	h.logger.Debug("Search completed",
		"path", r.URL.Path,
		"page", page,
		"returned", len(result.Data),
		"total", result.Total,
		"request_id", server.GetRequestID(r.Context()),
	)
	writeJSON(w, http.StatusOK, result)
}
