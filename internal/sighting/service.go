package sighting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/syntrixbase/ufoatlas/pkg/model"
)

// Service implements the query, detail, comment and facet operations over a Store.
type Service struct {
	store   Store
	encoder *AttachmentEncoder
	logger  *slog.Logger
}

// NewService wires a Service. The store handle is shared by all requests.
func NewService(store Store, encoder *AttachmentEncoder, logger *slog.Logger) *Service {
	if store == nil {
		panic("sighting store cannot be nil")
	}
	if encoder == nil {
		panic("attachment encoder cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:   store,
		encoder: encoder,
		logger:  logger.With("component", "sighting"),
	}
}

// maxSkippablePages is the last page index whose offset fits in an int64.
const maxSkippablePages = math.MaxInt64 / PageSize

// Offset returns the number of documents skipped before the given 1-indexed
// page, saturating at math.MaxInt64.
func Offset(page int) int64 {
	if page < 1 {
		return 0
	}
	if int64(page-1) > maxSkippablePages {
		return math.MaxInt64
	}
	return int64(page-1) * PageSize
}

// Paginate runs filter sorted by sortBy, returning one page of summaries and
// the total match count. The count is an independent query, so it is accurate
// even when the page is past the end of the result set.
func (s *Service) Paginate(ctx context.Context, filter Filter, page int, sortBy Sort) (*Page, error) {
	if page < 1 {
		return nil, fmt.Errorf("%w: page must be >= 1", model.ErrInvalidQuery)
	}

	// No collection holds enough documents to reach such a page.
	docs := []*Sighting{}
	if int64(page-1) <= maxSkippablePages {
		var err error
		docs, err = s.store.Find(ctx, filter, FindOptions{
			Sort:  sortBy,
			Skip:  Offset(page),
			Limit: PageSize,
		})
		if err != nil {
			return nil, fmt.Errorf("find sightings: %w", err)
		}
	}

	total, err := s.store.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count sightings: %w", err)
	}

	return &Page{
		Data:  ToSummaries(docs),
		Total: total,
		Page:  page,
		Limit: PageSize,
	}, nil
}

// ParseID converts a hex identifier, reporting malformed input as ErrInvalidID.
func ParseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", model.ErrInvalidID, id)
	}
	return oid, nil
}

// Get returns the full view of one sighting with its attachments inlined.
func (s *Service) Get(ctx context.Context, id string) (Detail, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}

	doc, err := s.store.Get(ctx, oid)
	if err != nil {
		return nil, err
	}

	image := s.encoder.Encode(ctx, doc.Image)
	ufoImage := s.encoder.Encode(ctx, doc.UFOImage)

	return ToDetail(doc, image, ufoImage), nil
}

// AddComment appends a trimmed user comment to an existing sighting and
// returns the stored text. Duplicate submissions append duplicate entries.
func (s *Service) AddComment(ctx context.Context, id string, comment string) (string, error) {
	oid, err := ParseID(id)
	if err != nil {
		return "", err
	}

	if _, err := s.store.Get(ctx, oid); err != nil {
		return "", err
	}

	comment = strings.TrimSpace(comment)
	if comment == "" {
		return "", model.ErrEmptyComment
	}

	if err := s.store.AppendComment(ctx, oid, comment); err != nil {
		return "", err
	}

	s.logger.Info("User comment added", "sighting_id", oid.Hex(), "length", len(comment))
	return comment, nil
}

// Facet lists the distinct non-empty values of field in ascending order.
// An empty listing is reported as ErrNotFound.
func (s *Service) Facet(ctx context.Context, field string) ([]string, error) {
	if !FacetFields[field] {
		return nil, fmt.Errorf("%w: no facet for field %q", model.ErrInvalidQuery, field)
	}

	values, err := s.store.Distinct(ctx, field)
	if err != nil {
		return nil, fmt.Errorf("distinct %s: %w", field, err)
	}

	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil, model.ErrNotFound
	}
	sort.Strings(out)
	return out, nil
}

// Ping checks that the store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	if err := s.store.Ping(ctx); err != nil {
		return errors.Join(errors.New("store unreachable"), err)
	}
	return nil
}
