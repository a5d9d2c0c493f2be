package mongo

import (
	"context"
	"errors"
	"io"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/gridfs"

	"github.com/syntrixbase/ufoatlas/internal/sighting"
	"github.com/syntrixbase/ufoatlas/pkg/model"
)

var _ sighting.BlobStore = (*BlobStore)(nil)

// BlobStore implements sighting.BlobStore over a GridFS bucket.
type BlobStore struct {
	bucket *gridfs.Bucket
}

// NewBlobStore wraps bucket.
func NewBlobStore(bucket *gridfs.Bucket) *BlobStore {
	return &BlobStore{bucket: bucket}
}

// Open starts streaming a GridFS file. The context deadline, if any, bounds
// every chunk read on the returned stream.
func (b *BlobStore) Open(ctx context.Context, id primitive.ObjectID) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, model.WrapError(err)
	}

	stream, err := b.bucket.OpenDownloadStream(id)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, model.WrapError(err)
	}

	if deadline, ok := ctx.Deadline(); ok {
		if err := stream.SetReadDeadline(deadline); err != nil {
			_ = stream.Close()
			return nil, err
		}
	}
	return stream, nil
}
