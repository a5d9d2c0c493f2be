package sighting

import (
	"math"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// storedSighting mirrors Sighting but keeps every interpreted field raw, so
// documents loaded with inferred types (numbers in text columns, empty
// strings in reference columns) still decode.
type storedSighting struct {
	ID           primitive.ObjectID `bson:"_id"`
	City         bson.RawValue      `bson:"city"`
	State        bson.RawValue      `bson:"state"`
	Country      bson.RawValue      `bson:"country"`
	Shape        bson.RawValue      `bson:"shape"`
	Comments     bson.RawValue      `bson:"comments"`
	Location     bson.RawValue      `bson:"location"`
	Image        bson.RawValue      `bson:"image"`
	UFOImage     bson.RawValue      `bson:"ufo_image"`
	UserComments bson.RawValue      `bson:"user_comments"`
	Extra        map[string]any     `bson:",inline"`
}

// UnmarshalBSON decodes a stored document. Descriptive fields holding
// numbers or booleans are rendered as text; null or unusable values are
// treated as absent.
func (s *Sighting) UnmarshalBSON(data []byte) error {
	var raw storedSighting
	if err := bson.Unmarshal(data, &raw); err != nil {
		return err
	}

	*s = Sighting{
		ID:           raw.ID,
		City:         rawText(raw.City),
		State:        rawText(raw.State),
		Country:      rawText(raw.Country),
		Shape:        rawText(raw.Shape),
		Comments:     rawText(raw.Comments),
		Location:     rawPoint(raw.Location),
		Image:        rawObjectID(raw.Image),
		UFOImage:     rawObjectID(raw.UFOImage),
		UserComments: rawTextList(raw.UserComments),
		Extra:        raw.Extra,
	}
	return nil
}

func rawText(v bson.RawValue) *string {
	var out string
	switch v.Type {
	case bsontype.String:
		out = v.StringValue()
	case bsontype.Int32:
		out = strconv.FormatInt(int64(v.Int32()), 10)
	case bsontype.Int64:
		out = strconv.FormatInt(v.Int64(), 10)
	case bsontype.Double:
		f := v.Double()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		out = strconv.FormatFloat(f, 'f', -1, 64)
	case bsontype.Decimal128:
		out = v.Decimal128().String()
	case bsontype.Boolean:
		out = strconv.FormatBool(v.Boolean())
	default:
		return nil
	}
	return &out
}

func rawTextList(v bson.RawValue) []string {
	if v.Type != bsontype.Array {
		if s := rawText(v); s != nil {
			return []string{*s}
		}
		return nil
	}
	values, err := v.Array().Values()
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, e := range values {
		if s := rawText(e); s != nil {
			out = append(out, *s)
		}
	}
	return out
}

// rawObjectID accepts an ObjectID or its hex form; anything else means no
// attachment.
func rawObjectID(v bson.RawValue) *primitive.ObjectID {
	switch v.Type {
	case bsontype.ObjectID:
		id := v.ObjectID()
		return &id
	case bsontype.String:
		id, err := primitive.ObjectIDFromHex(v.StringValue())
		if err != nil {
			return nil
		}
		return &id
	default:
		return nil
	}
}

// rawPoint decodes a GeoJSON point, dropping one that does not decode.
func rawPoint(v bson.RawValue) *Point {
	if v.Type != bsontype.EmbeddedDocument {
		return nil
	}
	var p Point
	if err := v.Unmarshal(&p); err != nil {
		return nil
	}
	return &p
}
