// Package testing provides test doubles for the sighting store interfaces.
package testing

import (
	"bytes"
	"context"
	"io"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/syntrixbase/ufoatlas/internal/sighting"
	"github.com/syntrixbase/ufoatlas/pkg/model"
)

// MockStore is a testify mock of sighting.Store.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Find(ctx context.Context, filter sighting.Filter, opts sighting.FindOptions) ([]*sighting.Sighting, error) {
	args := m.Called(ctx, filter, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*sighting.Sighting), args.Error(1)
}

func (m *MockStore) Count(ctx context.Context, filter sighting.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStore) Get(ctx context.Context, id primitive.ObjectID) (*sighting.Sighting, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sighting.Sighting), args.Error(1)
}

func (m *MockStore) AppendComment(ctx context.Context, id primitive.ObjectID, comment string) error {
	args := m.Called(ctx, id, comment)
	return args.Error(0)
}

func (m *MockStore) Distinct(ctx context.Context, field string) ([]string, error) {
	args := m.Called(ctx, field)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MemoryStore is an in-memory sighting.Store that evaluates filters the way
// the document store does. Safe for concurrent use.
type MemoryStore struct {
	mu   sync.Mutex
	docs []*sighting.Sighting
}

// NewMemoryStore creates a store seeded with docs.
func NewMemoryStore(docs ...*sighting.Sighting) *MemoryStore {
	s := &MemoryStore{}
	for _, d := range docs {
		s.Insert(d)
	}
	return s
}

// Insert adds a document, assigning an ID when it has none.
func (s *MemoryStore) Insert(doc *sighting.Sighting) primitive.ObjectID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	s.docs = append(s.docs, doc)
	return doc.ID
}

func (s *MemoryStore) Find(ctx context.Context, filter sighting.Filter, opts sighting.FindOptions) ([]*sighting.Sighting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := s.match(filter)
	sort.SliceStable(matched, func(i, j int) bool {
		a, b := sortKey(matched[i], opts.Sort.Field), sortKey(matched[j], opts.Sort.Field)
		if opts.Sort.Descending {
			return a > b
		}
		return a < b
	})

	if opts.Skip >= int64(len(matched)) {
		return []*sighting.Sighting{}, nil
	}
	matched = matched[opts.Skip:]
	if opts.Limit > 0 && int64(len(matched)) > opts.Limit {
		matched = matched[:opts.Limit]
	}
	return matched, nil
}

func (s *MemoryStore) Count(ctx context.Context, filter sighting.Filter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.match(filter))), nil
}

func (s *MemoryStore) Get(ctx context.Context, id primitive.ObjectID) (*sighting.Sighting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.docs {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, model.ErrNotFound
}

func (s *MemoryStore) AppendComment(ctx context.Context, id primitive.ObjectID, comment string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.docs {
		if d.ID == id {
			d.UserComments = append(d.UserComments, comment)
			return nil
		}
	}
	return model.ErrNotFound
}

func (s *MemoryStore) Distinct(ctx context.Context, field string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := map[string]bool{}
	var out []string
	for _, d := range s.docs {
		v := fieldValue(d, field)
		if v == nil || seen[*v] {
			continue
		}
		seen[*v] = true
		out = append(out, *v)
	}
	return out, nil
}

func (s *MemoryStore) Ping(ctx context.Context) error { return nil }

func (s *MemoryStore) match(filter sighting.Filter) []*sighting.Sighting {
	var out []*sighting.Sighting
	for _, d := range s.docs {
		if matches(d, filter) {
			out = append(out, d)
		}
	}
	return out
}

func matches(d *sighting.Sighting, filter sighting.Filter) bool {
	switch f := filter.(type) {
	case sighting.MatchAll:
		return true
	case sighting.FieldFilter:
		return containsFold(fieldValue(d, f.Field), f.Term)
	case sighting.KeywordFilter:
		for _, field := range f.Fields {
			if containsFold(fieldValue(d, field), f.Term) {
				return true
			}
		}
		return false
	case sighting.NearFilter:
		lat, lon := d.Coordinates()
		if lat == nil || lon == nil {
			return false
		}
		return centralAngle(f.Latitude, f.Longitude, *lat, *lon) <= f.RadiusRadians()
	default:
		return false
	}
}

func fieldValue(d *sighting.Sighting, field string) *string {
	switch field {
	case "city":
		return d.City
	case "state":
		return d.State
	case "country":
		return d.Country
	case "shape":
		return d.Shape
	case "comments":
		return d.Comments
	}
	return nil
}

func containsFold(v *string, term string) bool {
	return v != nil && strings.Contains(strings.ToLower(*v), strings.ToLower(term))
}

func sortKey(d *sighting.Sighting, field string) string {
	if field == "" || field == "_id" {
		return d.ID.Hex()
	}
	if v := fieldValue(d, field); v != nil {
		return *v
	}
	return ""
}

// centralAngle is the great-circle angle in radians between two points.
func centralAngle(lat1, lon1, lat2, lon2 float64) float64 {
	rad := math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLon := (lon2 - lon1) * rad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// MemoryBlobStore serves blobs from memory; unknown IDs fail to open.
type MemoryBlobStore struct {
	mu    sync.Mutex
	blobs map[primitive.ObjectID][]byte
}

// NewMemoryBlobStore creates an empty blob store.
func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{blobs: make(map[primitive.ObjectID][]byte)}
}

// Put stores content and returns its new identifier.
func (b *MemoryBlobStore) Put(content []byte) primitive.ObjectID {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := primitive.NewObjectID()
	b.blobs[id] = append([]byte(nil), content...)
	return id
}

func (b *MemoryBlobStore) Open(ctx context.Context, id primitive.ObjectID) (io.ReadCloser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.blobs[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// MockBlobStore is a testify mock of sighting.BlobStore.
type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) Open(ctx context.Context, id primitive.ObjectID) (io.ReadCloser, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
