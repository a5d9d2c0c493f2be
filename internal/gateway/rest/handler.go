package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	gateway "github.com/syntrixbase/ufoatlas/internal/gateway/config"
	"github.com/syntrixbase/ufoatlas/internal/server"
	"github.com/syntrixbase/ufoatlas/internal/sighting"
	"github.com/syntrixbase/ufoatlas/pkg/model"
)

// Handler serves the sighting query, detail, comment and facet endpoints.
type Handler struct {
	svc    *sighting.Service
	cfg    gateway.Config
	logger *slog.Logger
}

func NewHandler(svc *sighting.Service, cfg gateway.Config, logger *slog.Logger) *Handler {
	if svc == nil {
		panic("sighting service cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	cfg.ApplyDefaults()

	return &Handler{
		svc:    svc,
		cfg:    cfg,
		logger: logger.With("component", "rest"),
	}
}

// Health checks get a short fixed timeout regardless of configuration.
const healthTimeout = 5 * time.Second

// APIError represents a structured error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"error"`
}

// Error codes
const (
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
	ErrCodeUnavailable     = "SERVICE_UNAVAILABLE"
	ErrCodeInternalError   = "INTERNAL_ERROR"
)

const msgInternalError = "Internal server error"

// writeError writes a structured JSON error response
func writeError(w http.ResponseWriter, status int, code string, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(APIError{Code: code, Message: message}); err != nil {
		slog.Warn("Failed to encode error response", "error", err)
	}
}

// writeInternalError logs err and answers with a generic 500, unless the
// client went away, in which case 499 is written without a body.
func (h *Handler) writeInternalError(w http.ResponseWriter, r *http.Request, err error, message string) {
	if model.IsCanceled(err) {
		w.WriteHeader(499) // Client Closed Request
		return
	}
	h.logger.Error(message,
		"error", err,
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", server.GetRequestID(r.Context()),
	)
	writeError(w, http.StatusInternalServerError, ErrCodeInternalError, msgInternalError)
}

// writeServiceError maps service errors to responses. notFound is the
// message used for ErrNotFound and ErrInvalidID.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	switch {
	case errors.Is(err, model.ErrNotFound), errors.Is(err, model.ErrInvalidID):
		writeError(w, http.StatusNotFound, ErrCodeNotFound, notFound)
	case errors.Is(err, model.ErrEmptyComment):
		writeError(w, http.StatusBadRequest, ErrCodeBadRequest, "Empty comment")
	case errors.Is(err, model.ErrInvalidQuery):
		writeError(w, http.StatusBadRequest, ErrCodeBadRequest, "Invalid query")
	default:
		h.writeInternalError(w, r, err, "Sighting store operation failed")
	}
}

// writeJSON encodes data before touching the response, so a value that
// cannot be encoded yields a clean 500 instead of a truncated 200.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
		writeError(w, http.StatusInternalServerError, ErrCodeInternalError, msgInternalError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		slog.Warn("Failed to write JSON response", "error", err)
	}
}

// maxBodySize wraps a handler with request body size limiting
func maxBodySize(next http.HandlerFunc, maxBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		}
		next(w, r)
	}
}

// withTimeout wraps a handler with a context timeout
// If the handler takes longer than the timeout, the context is cancelled
func withTimeout(next http.HandlerFunc, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()
		next(w, r.WithContext(ctx))
	}
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	timeout := h.cfg.RequestTimeout

	// Search
	mux.HandleFunc("GET /search_word", withTimeout(h.handleSearchWord, timeout))
	mux.HandleFunc("GET /search_nearby", withTimeout(h.handleSearchNearby, timeout))

	// Field search, one route per searchable field
	// URL format: /sightings/{field}/{value}
	for _, field := range sighting.SearchableFieldNames() {
		mux.HandleFunc("GET /sightings/"+field+"/{value}", withTimeout(h.handleFieldSearch(field), timeout))
	}

	// Detail and comments
	mux.HandleFunc("GET /sighting/{id}", withTimeout(h.handleGetSighting, timeout))
	mux.HandleFunc("POST /sighting/{id}/comment", withTimeout(maxBodySize(h.handleAddComment, h.cfg.MaxBodySize), timeout))

	// Facets
	mux.HandleFunc("GET /countries", withTimeout(h.handleFacet("country", "Countries not found"), timeout))
	mux.HandleFunc("GET /states", withTimeout(h.handleFacet("state", "States not found"), timeout))
	mux.HandleFunc("GET /shapes", withTimeout(h.handleFacet("shape", "Shapes not found"), timeout))

	// Health Check (minimal timeout)
	mux.HandleFunc("GET /health", withTimeout(h.handleHealth, healthTimeout))
}
