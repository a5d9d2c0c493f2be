package services

import (
	"log/slog"
	"sync"

	"github.com/syntrixbase/ufoatlas/internal/config"
	"github.com/syntrixbase/ufoatlas/internal/core/storage"
	"github.com/syntrixbase/ufoatlas/internal/server"
	"github.com/syntrixbase/ufoatlas/internal/sighting"
)

// Manager owns the process lifecycle: it connects storage, wires the
// sighting service into the HTTP server, and tears everything down in
// reverse order.
type Manager struct {
	cfg    *config.Config
	logger *slog.Logger

	storageFactory storage.Factory
	service        *sighting.Service
	server         server.Service

	wg    sync.WaitGroup
	errCh chan error
}

func NewManager(cfg *config.Config, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		cfg:    cfg,
		logger: logger,
		errCh:  make(chan error, 1),
	}
}

// Errors reports fatal errors from background components, such as the HTTP
// listener failing to bind.
func (m *Manager) Errors() <-chan error {
	return m.errCh
}

// Server returns the HTTP server service. Nil before Init.
func (m *Manager) Server() server.Service {
	return m.server
}
