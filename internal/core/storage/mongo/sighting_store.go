package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/syntrixbase/ufoatlas/internal/metrics"
	"github.com/syntrixbase/ufoatlas/internal/sighting"
	"github.com/syntrixbase/ufoatlas/pkg/model"
)

var _ sighting.Store = (*SightingStore)(nil)

// SightingStore implements sighting.Store over one MongoDB collection.
type SightingStore struct {
	db         *mongo.Database
	collection string
}

// NewSightingStore initializes a store over db.collection.
func NewSightingStore(db *mongo.Database, collection string) *SightingStore {
	return &SightingStore{
		db:         db,
		collection: collection,
	}
}

func (s *SightingStore) coll() *mongo.Collection {
	return s.db.Collection(s.collection)
}

// EnsureIndexes creates the 2dsphere index used by radius searches.
func (s *SightingStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "location", Value: "2dsphere"}},
		Options: options.Index().SetName("location_2dsphere"),
	})
	return model.WrapError(err)
}

func (s *SightingStore) Find(ctx context.Context, filter sighting.Filter, opts sighting.FindOptions) (docs []*sighting.Sighting, err error) {
	defer func(start time.Time) { metrics.ObserveStore("find", start, err) }(time.Now())

	query, err := makeFilterBSON(filter)
	if err != nil {
		return nil, err
	}

	findOptions := options.Find().SetSort(makeSortBSON(opts.Sort))
	if opts.Skip > 0 {
		findOptions.SetSkip(opts.Skip)
	}
	if opts.Limit > 0 {
		findOptions.SetLimit(opts.Limit)
	}

	cursor, err := s.coll().Find(ctx, query, findOptions)
	if err != nil {
		return nil, model.WrapError(err)
	}
	defer cursor.Close(ctx)

	docs = []*sighting.Sighting{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, model.WrapError(err)
	}
	return docs, nil
}

func (s *SightingStore) Count(ctx context.Context, filter sighting.Filter) (n int64, err error) {
	defer func(start time.Time) { metrics.ObserveStore("count", start, err) }(time.Now())

	query, err := makeFilterBSON(filter)
	if err != nil {
		return 0, err
	}
	n, err = s.coll().CountDocuments(ctx, query)
	return n, model.WrapError(err)
}

func (s *SightingStore) Get(ctx context.Context, id primitive.ObjectID) (doc *sighting.Sighting, err error) {
	defer func(start time.Time) { metrics.ObserveStore("get", start, err) }(time.Now())

	var out sighting.Sighting
	if err := s.coll().FindOne(ctx, bson.M{"_id": id}).Decode(&out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrNotFound
		}
		return nil, model.WrapError(err)
	}
	return &out, nil
}

// AppendComment pushes comment onto user_comments in a single atomic update.
func (s *SightingStore) AppendComment(ctx context.Context, id primitive.ObjectID, comment string) (err error) {
	defer func(start time.Time) { metrics.ObserveStore("append_comment", start, err) }(time.Now())

	result, err := s.coll().UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$push": bson.M{"user_comments": comment}},
	)
	if err != nil {
		return model.WrapError(err)
	}
	if result.MatchedCount == 0 {
		return model.ErrNotFound
	}
	return nil
}

// Distinct groups the collection by field and returns every string key.
// Null and non-string keys are skipped.
func (s *SightingStore) Distinct(ctx context.Context, field string) (values []string, err error) {
	defer func(start time.Time) { metrics.ObserveStore("distinct", start, err) }(time.Now())

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{{Key: "_id", Value: "$" + field}}}},
	}
	cursor, err := s.coll().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, model.WrapError(err)
	}
	defer cursor.Close(ctx)

	var groups []struct {
		Key any `bson:"_id"`
	}
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, model.WrapError(err)
	}

	values = make([]string, 0, len(groups))
	for _, g := range groups {
		if v, ok := g.Key.(string); ok {
			values = append(values, v)
		}
	}
	return values, nil
}

func (s *SightingStore) Ping(ctx context.Context) error {
	if err := s.db.Client().Ping(ctx, nil); err != nil {
		return fmt.Errorf("ping mongo: %w", model.WrapError(err))
	}
	return nil
}
