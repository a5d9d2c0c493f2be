package sighting

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/syntrixbase/ufoatlas/internal/metrics"
	"github.com/syntrixbase/ufoatlas/pkg/model"
)

// Attachment is an inlined blob. When Available is false it serialises as null.
type Attachment struct {
	Data      string
	Available bool
}

// Unavailable marks an attachment that is absent or could not be read.
var Unavailable = Attachment{}

// MarshalJSON renders the base64 text, or null when unavailable.
func (a Attachment) MarshalJSON() ([]byte, error) {
	if !a.Available {
		return []byte("null"), nil
	}
	// base64 std alphabet never needs JSON escaping
	return []byte(`"` + a.Data + `"`), nil
}

// AttachmentEncoder inlines blobs as base64 text on a best-effort basis.
type AttachmentEncoder struct {
	blobs  BlobStore
	logger *slog.Logger
}

// NewAttachmentEncoder creates an encoder over the given blob store.
func NewAttachmentEncoder(blobs BlobStore, logger *slog.Logger) *AttachmentEncoder {
	if logger == nil {
		logger = slog.Default()
	}
	return &AttachmentEncoder{
		blobs:  blobs,
		logger: logger.With("component", "attachment"),
	}
}

// Encode reads the blob fully and returns it base64-encoded. Failures are
// logged and reported as Unavailable, never as an error.
func (e *AttachmentEncoder) Encode(ctx context.Context, id *primitive.ObjectID) Attachment {
	if id == nil || id.IsZero() {
		return Unavailable
	}
	data, err := e.read(ctx, *id)
	if err != nil {
		e.logger.Warn("Failed to fetch attachment", "blob_id", id.Hex(), "error", err)
		metrics.AttachmentFailed()
		return Unavailable
	}
	return Attachment{Data: base64.StdEncoding.EncodeToString(data), Available: true}
}

func (e *AttachmentEncoder) read(ctx context.Context, id primitive.ObjectID) ([]byte, error) {
	rc, err := e.blobs.Open(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: open: %w", model.ErrBlobUnavailable, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("%w: read: %w", model.ErrBlobUnavailable, err)
	}
	return data, nil
}
