package sighting

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Detail is the flattened full view of a sighting returned by the detail endpoint.
type Detail map[string]any

// ToSummary maps a stored sighting to its listing representation.
// Missing descriptive fields become NotAvailable and missing coordinates become null.
func ToSummary(s *Sighting) Summary {
	lat, lon := s.Coordinates()
	return Summary{
		ID:        s.ID.Hex(),
		City:      orNotAvailable(s.City),
		Comments:  orNotAvailable(s.Comments),
		Country:   orNotAvailable(s.Country),
		Shape:     orNotAvailable(s.Shape),
		State:     orNotAvailable(s.State),
		Latitude:  lat,
		Longitude: lon,
	}
}

// ToSummaries maps a result set, always returning a non-nil slice.
func ToSummaries(docs []*Sighting) []Summary {
	out := make([]Summary, 0, len(docs))
	for _, d := range docs {
		if d == nil {
			continue
		}
		out = append(out, ToSummary(d))
	}
	return out
}

// Coordinates returns (latitude, longitude) from the stored [lon, lat] pair.
func (s *Sighting) Coordinates() (lat, lon *float64) {
	if s.Location == nil {
		return nil, nil
	}
	c := s.Location.Coordinates
	if len(c) > 0 {
		v := c[0]
		lon = &v
	}
	if len(c) > 1 {
		v := c[1]
		lat = &v
	}
	return lat, lon
}

// ToDetail flattens a sighting together with its inlined attachments.
func ToDetail(s *Sighting, image, ufoImage Attachment) Detail {
	out := make(Detail, len(s.Extra)+12)
	for k, v := range s.Extra {
		out[k] = plainValue(v)
	}

	out["_id"] = s.ID.Hex()
	setIfPresent(out, "city", s.City)
	setIfPresent(out, "state", s.State)
	setIfPresent(out, "country", s.Country)
	setIfPresent(out, "shape", s.Shape)
	setIfPresent(out, "comments", s.Comments)
	if s.Location != nil {
		out["location"] = s.Location
	}

	comments := s.UserComments
	if comments == nil {
		comments = []string{}
	}
	out["user_comments"] = comments

	out["image"] = image
	out["ufo_image"] = ufoImage

	lat, lon := s.Coordinates()
	out["latitude"] = lat
	out["longitude"] = lon
	return out
}

func orNotAvailable(v *string) string {
	if v == nil {
		return NotAvailable
	}
	return *v
}

func setIfPresent(out Detail, key string, v *string) {
	if v != nil {
		out[key] = *v
	}
}

// plainValue converts driver-specific BSON values into JSON-friendly ones.
func plainValue(v any) any {
	switch t := v.(type) {
	case primitive.ObjectID:
		return t.Hex()
	case primitive.DateTime:
		return t.Time().UTC().Format(time.RFC3339)
	case primitive.Timestamp:
		return time.Unix(int64(t.T), 0).UTC().Format(time.RFC3339)
	case primitive.Decimal128:
		return t.String()
	case primitive.Null, primitive.Undefined:
		return nil
	case float64:
		// Inferred CSV columns can hold NaN, which JSON cannot carry.
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return nil
		}
		return t
	case primitive.D:
		m := make(map[string]any, len(t))
		for _, e := range t {
			m[e.Key] = plainValue(e.Value)
		}
		return m
	case primitive.M:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = plainValue(e)
		}
		return m
	case primitive.A:
		a := make([]any, len(t))
		for i, e := range t {
			a[i] = plainValue(e)
		}
		return a
	default:
		return v
	}
}
