package gateway

import (
	"log/slog"
	"net/http"

	gateway "github.com/syntrixbase/ufoatlas/internal/gateway/config"
	"github.com/syntrixbase/ufoatlas/internal/gateway/rest"
	"github.com/syntrixbase/ufoatlas/internal/metrics"
	"github.com/syntrixbase/ufoatlas/internal/sighting"
)

// Server is a route registrar for the API layer.
// It registers REST routes, the metrics endpoint and the frontend bundle
// to a given ServeMux.
type Server struct {
	rest      *rest.Handler
	staticDir string
}

// NewServer creates a new API Server (route registrar).
func NewServer(svc *sighting.Service, cfg gateway.Config, logger *slog.Logger) *Server {
	cfg.ApplyDefaults()
	return &Server{
		rest:      rest.NewHandler(svc, cfg, logger),
		staticDir: cfg.StaticDir,
	}
}

// RegisterRoutes registers all API routes to the given ServeMux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	s.rest.RegisterRoutes(mux)

	mux.Handle("GET /metrics", metrics.Handler())

	// Frontend bundle; index.html is served for "/"
	mux.Handle("GET /", http.FileServer(http.Dir(s.staticDir)))
}
