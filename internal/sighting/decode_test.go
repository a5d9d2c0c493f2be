package sighting

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func decodeDoc(t *testing.T, doc bson.D) *Sighting {
	t.Helper()
	raw, err := bson.Marshal(doc)
	require.NoError(t, err)
	var s Sighting
	require.NoError(t, bson.Unmarshal(raw, &s))
	return &s
}

func TestDecode_NumericTextFields(t *testing.T) {
	id := primitive.NewObjectID()
	s := decodeDoc(t, bson.D{
		{Key: "_id", Value: id},
		{Key: "city", Value: int32(1)},
		{Key: "state", Value: int64(51)},
		{Key: "comments", Value: 2.5},
		{Key: "shape", Value: true},
		{Key: "country", Value: 3.0},
	})

	sum := ToSummary(s)
	assert.Equal(t, id.Hex(), sum.ID)
	assert.Equal(t, "1", sum.City)
	assert.Equal(t, "51", sum.State)
	assert.Equal(t, "2.5", sum.Comments)
	assert.Equal(t, "true", sum.Shape)
	assert.Equal(t, "3", sum.Country)
}

func TestDecode_EmptyAndNullTextFields(t *testing.T) {
	s := decodeDoc(t, bson.D{
		{Key: "_id", Value: primitive.NewObjectID()},
		{Key: "city", Value: ""},
		{Key: "state", Value: nil},
		{Key: "comments", Value: math.NaN()},
		{Key: "shape", Value: bson.D{{Key: "nested", Value: 1}}},
	})

	sum := ToSummary(s)
	assert.Equal(t, "", sum.City)
	assert.Equal(t, NotAvailable, sum.State)
	assert.Equal(t, NotAvailable, sum.Comments)
	assert.Equal(t, NotAvailable, sum.Shape)
	assert.Equal(t, NotAvailable, sum.Country)

	detail := ToDetail(s, Unavailable, Unavailable)
	assert.Equal(t, "", detail["city"])
	assert.NotContains(t, detail, "state")
	assert.NotContains(t, s.Extra, "city")
}

func TestDecode_AttachmentReferences(t *testing.T) {
	img := primitive.NewObjectID()
	ufo := primitive.NewObjectID()

	s := decodeDoc(t, bson.D{
		{Key: "_id", Value: primitive.NewObjectID()},
		{Key: "image", Value: img},
		{Key: "ufo_image", Value: ufo.Hex()},
	})
	require.NotNil(t, s.Image)
	require.NotNil(t, s.UFOImage)
	assert.Equal(t, img, *s.Image)
	assert.Equal(t, ufo, *s.UFOImage)

	for _, bad := range []any{"", "not-hex", int32(7), nil} {
		s := decodeDoc(t, bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "image", Value: bad},
			{Key: "ufo_image", Value: bad},
		})
		assert.Nil(t, s.Image, "%v", bad)
		assert.Nil(t, s.UFOImage, "%v", bad)
		assert.NotContains(t, s.Extra, "image")
	}
}

func TestDecode_Location(t *testing.T) {
	s := decodeDoc(t, bson.D{
		{Key: "_id", Value: primitive.NewObjectID()},
		{Key: "location", Value: bson.D{
			{Key: "type", Value: "Point"},
			{Key: "coordinates", Value: bson.A{int32(-104), 33.39}},
		}},
	})
	lat, lon := s.Coordinates()
	require.NotNil(t, lat)
	require.NotNil(t, lon)
	assert.Equal(t, 33.39, *lat)
	assert.Equal(t, -104.0, *lon)

	for _, bad := range []any{"33.39,-104.52", bson.D{{Key: "coordinates", Value: "x"}}} {
		s := decodeDoc(t, bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "location", Value: bad}})
		lat, lon := s.Coordinates()
		assert.Nil(t, lat)
		assert.Nil(t, lon)
	}
}

func TestDecode_UserComments(t *testing.T) {
	s := decodeDoc(t, bson.D{
		{Key: "_id", Value: primitive.NewObjectID()},
		{Key: "user_comments", Value: bson.A{"first", int32(42), nil, "third"}},
	})
	assert.Equal(t, []string{"first", "42", "third"}, s.UserComments)

	s = decodeDoc(t, bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "user_comments", Value: "lone"}})
	assert.Equal(t, []string{"lone"}, s.UserComments)

	s = decodeDoc(t, bson.D{{Key: "_id", Value: primitive.NewObjectID()}})
	assert.Nil(t, s.UserComments)
	assert.Equal(t, []string{}, ToDetail(s, Unavailable, Unavailable)["user_comments"])
}
