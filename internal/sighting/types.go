package sighting

import (
	"context"
	"io"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PageSize is the fixed number of summaries returned by every listing endpoint.
const PageSize = 10

// EarthRadiusMiles is the mean Earth radius used to convert a search radius to radians.
const EarthRadiusMiles = 3959.0

// NotAvailable is the placeholder for descriptive fields missing from a stored document.
const NotAvailable = "N/A"

// Point is a GeoJSON point. Coordinates are ordered [longitude, latitude].
type Point struct {
	Type        string    `bson:"type,omitempty" json:"type,omitempty"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
}

// Sighting is a stored report. Every descriptive field is optional; fields this
// service does not interpret are kept in Extra so the detail view can return them.
type Sighting struct {
	ID           primitive.ObjectID  `bson:"_id"`
	City         *string             `bson:"city,omitempty"`
	State        *string             `bson:"state,omitempty"`
	Country      *string             `bson:"country,omitempty"`
	Shape        *string             `bson:"shape,omitempty"`
	Comments     *string             `bson:"comments,omitempty"`
	Location     *Point              `bson:"location,omitempty"`
	Image        *primitive.ObjectID `bson:"image,omitempty"`
	UFOImage     *primitive.ObjectID `bson:"ufo_image,omitempty"`
	UserComments []string            `bson:"user_comments,omitempty"`
	Extra        map[string]any      `bson:",inline"`
}

// Summary is the public listing representation of a sighting.
type Summary struct {
	ID        string   `json:"_id"`
	City      string   `json:"city"`
	Comments  string   `json:"comments"`
	Country   string   `json:"country"`
	Shape     string   `json:"shape"`
	State     string   `json:"state"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// Page is one bounded slice of matching sightings plus the true match count.
type Page struct {
	Data  []Summary `json:"data"`
	Total int64     `json:"total"`
	Page  int       `json:"page"`
	Limit int       `json:"limit"`
}

// Sort orders a paginated query. The zero value sorts by _id ascending.
type Sort struct {
	Field      string
	Descending bool
}

// FindOptions bounds a Find call.
type FindOptions struct {
	Sort  Sort
	Skip  int64
	Limit int64
}

// Store is the document store holding sightings.
type Store interface {
	Find(ctx context.Context, filter Filter, opts FindOptions) ([]*Sighting, error)
	Count(ctx context.Context, filter Filter) (int64, error)
	Get(ctx context.Context, id primitive.ObjectID) (*Sighting, error)
	AppendComment(ctx context.Context, id primitive.ObjectID, comment string) error
	Distinct(ctx context.Context, field string) ([]string, error)
	Ping(ctx context.Context) error
}

// BlobStore reads attachment content by identifier.
type BlobStore interface {
	Open(ctx context.Context, id primitive.ObjectID) (io.ReadCloser, error)
}
