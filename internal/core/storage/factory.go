package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/syntrixbase/ufoatlas/internal/core/storage/config"
	"github.com/syntrixbase/ufoatlas/internal/core/storage/mongo"
	"github.com/syntrixbase/ufoatlas/internal/sighting"
)

// Factory owns the store connection and the stores built on top of it.
type Factory interface {
	Sightings() sighting.Store
	Blobs() sighting.BlobStore
	Close(ctx context.Context) error
}

// Dependency injection for testing
var newMongoProvider = func(ctx context.Context, cfg config.MongoConfig) (mongoProvider, error) {
	return mongo.NewProvider(ctx, cfg.URI, cfg.DatabaseName, cfg.ConnectTimeout)
}

type mongoProvider interface {
	Provider
	Sightings(collection string) *mongo.SightingStore
	Blobs(bucket string) (*mongo.BlobStore, error)
}

type factory struct {
	provider  Provider
	sightings sighting.Store
	blobs     sighting.BlobStore
}

// NewFactory connects to the configured backend and builds the stores.
func NewFactory(ctx context.Context, cfg config.Config, logger *slog.Logger) (Factory, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "storage")

	p, err := newMongoProvider(ctx, cfg.Mongo)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	store := p.Sightings(cfg.Mongo.Collection)
	if cfg.EnsureIndexes {
		if err := store.EnsureIndexes(ctx); err != nil {
			closeQuietly(p, logger)
			return nil, fmt.Errorf("ensure indexes: %w", err)
		}
	}

	blobs, err := p.Blobs(cfg.Mongo.Bucket)
	if err != nil {
		closeQuietly(p, logger)
		return nil, err
	}

	logger.Info("Storage initialized",
		"database", cfg.Mongo.DatabaseName,
		"collection", cfg.Mongo.Collection,
		"bucket", cfg.Mongo.Bucket,
	)

	return &factory{
		provider:  p,
		sightings: store,
		blobs:     blobs,
	}, nil
}

func (f *factory) Sightings() sighting.Store { return f.sightings }
func (f *factory) Blobs() sighting.BlobStore { return f.blobs }

func (f *factory) Close(ctx context.Context) error {
	return f.provider.Close(ctx)
}

func closeQuietly(p Provider, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := p.Close(ctx); err != nil {
		logger.Warn("Failed to close storage provider", "error", err)
	}
}
