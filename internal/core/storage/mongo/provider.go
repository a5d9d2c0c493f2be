package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Provider owns the process-wide MongoDB connection.
type Provider struct {
	client *mongo.Client
	dbName string
}

// NewProvider initializes a new MongoDB provider (connection)
func NewProvider(ctx context.Context, uri string, dbName string, connectTimeout time.Duration) (*Provider, error) {
	clientOpts := options.Client().ApplyURI(uri)

	// Set some reasonable defaults if not provided in URI
	if clientOpts.ConnectTimeout == nil {
		timeout := connectTimeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		clientOpts.SetConnectTimeout(timeout)
	}

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, err
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return &Provider{
		client: client,
		dbName: dbName,
	}, nil
}

// Client returns the underlying MongoDB client
func (p *Provider) Client() *mongo.Client {
	return p.client
}

// DatabaseName returns the default database name for this provider
func (p *Provider) DatabaseName() string {
	return p.dbName
}

// Database returns the handle of the configured database.
func (p *Provider) Database() *mongo.Database {
	return p.client.Database(p.dbName)
}

// Bucket opens the GridFS bucket holding attachments.
func (p *Provider) Bucket(name string) (*gridfs.Bucket, error) {
	bucket, err := gridfs.NewBucket(p.Database(), options.GridFSBucket().SetName(name))
	if err != nil {
		return nil, fmt.Errorf("open gridfs bucket %q: %w", name, err)
	}
	return bucket, nil
}

// Close closes the MongoDB connection
func (p *Provider) Close(ctx context.Context) error {
	return p.client.Disconnect(ctx)
}

// Sightings returns the store over the named collection.
func (p *Provider) Sightings(collection string) *SightingStore {
	return NewSightingStore(p.Database(), collection)
}

// Blobs returns the blob store over the named GridFS bucket.
func (p *Provider) Blobs(bucket string) (*BlobStore, error) {
	b, err := p.Bucket(bucket)
	if err != nil {
		return nil, err
	}
	return NewBlobStore(b), nil
}
