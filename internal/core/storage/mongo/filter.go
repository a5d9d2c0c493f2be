package mongo

import (
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/syntrixbase/ufoatlas/internal/sighting"
	"github.com/syntrixbase/ufoatlas/pkg/model"
)

// makeFilterBSON translates a sighting filter into a MongoDB query document.
func makeFilterBSON(filter sighting.Filter) (bson.M, error) {
	switch f := filter.(type) {
	case nil, sighting.MatchAll:
		return bson.M{}, nil
	case sighting.FieldFilter:
		return bson.M{f.Field: containsRegex(f.Term)}, nil
	case sighting.KeywordFilter:
		clauses := make(bson.A, 0, len(f.Fields))
		for _, field := range f.Fields {
			clauses = append(clauses, bson.M{field: containsRegex(f.Term)})
		}
		return bson.M{"$or": clauses}, nil
	case sighting.NearFilter:
		return bson.M{
			"location": bson.M{
				"$geoWithin": bson.M{
					"$centerSphere": bson.A{
						bson.A{f.Longitude, f.Latitude},
						f.RadiusRadians(),
					},
				},
			},
		}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported filter %T", model.ErrInvalidQuery, filter)
	}
}

// containsRegex matches term as a literal, case-insensitive substring.
func containsRegex(term string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
}

// makeSortBSON orders by the requested field with _id as the tiebreaker,
// so skip/limit pages never overlap.
func makeSortBSON(s sighting.Sort) bson.D {
	dir := 1
	if s.Descending {
		dir = -1
	}
	field := s.Field
	if field == "" {
		field = "_id"
	}
	sort := bson.D{{Key: field, Value: dir}}
	if field != "_id" {
		sort = append(sort, bson.E{Key: "_id", Value: dir})
	}
	return sort
}
