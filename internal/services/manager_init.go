package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/syntrixbase/ufoatlas/internal/config"
	"github.com/syntrixbase/ufoatlas/internal/core/storage"
	"github.com/syntrixbase/ufoatlas/internal/gateway"
	"github.com/syntrixbase/ufoatlas/internal/server"
	"github.com/syntrixbase/ufoatlas/internal/sighting"
)

var storageFactoryFactory = func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.Factory, error) {
	return storage.NewFactory(ctx, cfg.Storage, logger)
}

// Init connects to storage and registers all routes. The store handle is
// created once here and shared by every request.
func (m *Manager) Init(ctx context.Context) error {
	sf, err := storageFactoryFactory(ctx, m.cfg, m.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize storage factory: %w", err)
	}
	m.storageFactory = sf
	m.logger.Info("Connected to Storage successfully")

	encoder := sighting.NewAttachmentEncoder(sf.Blobs(), m.logger)
	m.service = sighting.NewService(sf.Sightings(), encoder, m.logger)

	m.server = server.New(m.cfg.Server, m.logger)
	gateway.NewServer(m.service, m.cfg.Gateway, m.logger).RegisterRoutes(m.server.HTTPMux())

	m.logger.Info("Initialized API Gateway", "static_dir", m.cfg.Gateway.StaticDir)
	return nil
}
