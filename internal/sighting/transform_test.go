package sighting

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func strPtr(s string) *string { return &s }

func TestToSummary_FullDocument(t *testing.T) {
	id := primitive.NewObjectID()
	s := &Sighting{
		ID:       id,
		City:     strPtr("phoenix"),
		State:    strPtr("az"),
		Country:  strPtr("us"),
		Shape:    strPtr("light"),
		Comments: strPtr("Lights in a V formation"),
		Location: &Point{Type: "Point", Coordinates: []float64{-112.07, 33.45}},
	}

	got := ToSummary(s)

	assert.Equal(t, id.Hex(), got.ID)
	assert.Equal(t, "phoenix", got.City)
	assert.Equal(t, "az", got.State)
	assert.Equal(t, "us", got.Country)
	assert.Equal(t, "light", got.Shape)
	assert.Equal(t, "Lights in a V formation", got.Comments)
	require.NotNil(t, got.Latitude)
	require.NotNil(t, got.Longitude)
	assert.Equal(t, 33.45, *got.Latitude)
	assert.Equal(t, -112.07, *got.Longitude)
}

func TestToSummary_MissingFieldsDefault(t *testing.T) {
	got := ToSummary(&Sighting{ID: primitive.NewObjectID()})

	assert.Equal(t, NotAvailable, got.City)
	assert.Equal(t, NotAvailable, got.Comments)
	assert.Equal(t, NotAvailable, got.Country)
	assert.Equal(t, NotAvailable, got.Shape)
	assert.Equal(t, NotAvailable, got.State)
	assert.Nil(t, got.Latitude)
	assert.Nil(t, got.Longitude)

	raw, err := json.Marshal(got)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"latitude":null`)
	assert.Contains(t, string(raw), `"longitude":null`)
}

func TestToSummary_EmptyStringIsKept(t *testing.T) {
	got := ToSummary(&Sighting{ID: primitive.NewObjectID(), City: strPtr("")})
	assert.Equal(t, "", got.City)
}

func TestCoordinates_PartialPair(t *testing.T) {
	s := &Sighting{Location: &Point{Coordinates: []float64{10}}}
	lat, lon := s.Coordinates()
	assert.Nil(t, lat)
	require.NotNil(t, lon)
	assert.Equal(t, 10.0, *lon)

	s = &Sighting{Location: &Point{}}
	lat, lon = s.Coordinates()
	assert.Nil(t, lat)
	assert.Nil(t, lon)
}

func TestToSummaries_NeverNil(t *testing.T) {
	out := ToSummaries(nil)
	require.NotNil(t, out)
	assert.Empty(t, out)

	raw, err := json.Marshal(Page{Data: out})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"data":[]`)
}

func TestSighting_DecodeKeepsUnknownFields(t *testing.T) {
	id := primitive.NewObjectID()
	img := primitive.NewObjectID()
	posted := time.Date(2004, 1, 22, 0, 0, 0, 0, time.UTC)

	raw, err := bson.Marshal(bson.D{
		{Key: "_id", Value: id},
		{Key: "city", Value: "roswell"},
		{Key: "datetime", Value: "10/10/1949 20:30"},
		{Key: "date posted", Value: primitive.NewDateTimeFromTime(posted)},
		{Key: "duration (seconds)", Value: int32(2700)},
		{Key: "location", Value: bson.D{{Key: "type", Value: "Point"}, {Key: "coordinates", Value: bson.A{-104.52, 33.39}}}},
		{Key: "image", Value: img},
		{Key: "user_comments", Value: bson.A{"first"}},
	})
	require.NoError(t, err)

	var s Sighting
	require.NoError(t, bson.Unmarshal(raw, &s))

	assert.Equal(t, id, s.ID)
	assert.Equal(t, "roswell", *s.City)
	require.NotNil(t, s.Image)
	assert.Equal(t, img, *s.Image)
	assert.Nil(t, s.UFOImage)
	assert.Equal(t, []string{"first"}, s.UserComments)
	assert.Equal(t, "10/10/1949 20:30", s.Extra["datetime"])
	assert.NotContains(t, s.Extra, "city")
	assert.NotContains(t, s.Extra, "_id")

	detail := ToDetail(&s, Attachment{Data: "aGk=", Available: true}, Unavailable)
	assert.Equal(t, "2004-01-22T00:00:00Z", detail["date posted"])
	assert.Equal(t, int32(2700), detail["duration (seconds)"])
}

func TestToDetail(t *testing.T) {
	id := primitive.NewObjectID()
	s := &Sighting{
		ID:       id,
		City:     strPtr("roswell"),
		Location: &Point{Type: "Point", Coordinates: []float64{-104.52, 33.39}},
		Extra: map[string]any{
			"datetime": "10/10/1949 20:30",
			"nested":   primitive.D{{Key: "ref", Value: primitive.NewObjectID()}},
		},
	}

	d := ToDetail(s, Attachment{Data: "aGVsbG8=", Available: true}, Unavailable)

	raw, err := json.Marshal(d)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))

	assert.Equal(t, id.Hex(), out["_id"])
	assert.Equal(t, "roswell", out["city"])
	assert.NotContains(t, out, "state")
	assert.Equal(t, "aGVsbG8=", out["image"])
	assert.Nil(t, out["ufo_image"])
	assert.Contains(t, out, "ufo_image")
	assert.Equal(t, 33.39, out["latitude"])
	assert.Equal(t, -104.52, out["longitude"])
	assert.Equal(t, []any{}, out["user_comments"])
	assert.Equal(t, "10/10/1949 20:30", out["datetime"])
	assert.IsType(t, map[string]any{}, out["nested"])
}

func TestToDetail_NoLocation(t *testing.T) {
	d := ToDetail(&Sighting{ID: primitive.NewObjectID()}, Unavailable, Unavailable)

	raw, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"latitude":null`)
	assert.Contains(t, string(raw), `"image":null`)
	assert.NotContains(t, string(raw), `"location"`)
}

func TestPlainValue(t *testing.T) {
	oid := primitive.NewObjectID()
	assert.Equal(t, oid.Hex(), plainValue(oid))
	assert.Nil(t, plainValue(primitive.Null{}))
	assert.Equal(t, []any{"a", oid.Hex()}, plainValue(primitive.A{"a", oid}))
	assert.Equal(t, map[string]any{"k": 1}, plainValue(primitive.M{"k": 1}))
	assert.Equal(t, "x", plainValue("x"))
	assert.Equal(t, 2.5, plainValue(2.5))
	assert.Nil(t, plainValue(math.NaN()))
	assert.Nil(t, plainValue(math.Inf(-1)))
	assert.Equal(t, []any{nil, 1.0}, plainValue(primitive.A{math.NaN(), 1.0}))
}
