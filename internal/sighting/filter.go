package sighting

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/syntrixbase/ufoatlas/pkg/model"
)

// Filter is a predicate over stored sightings. Stores translate each concrete
// filter into their native query language.
type Filter interface {
	isFilter()
}

// KeywordFields are the fields scanned by a keyword search.
var KeywordFields = []string{"comments", "city", "state", "shape"}

// KeywordFilter matches sightings where any of Fields contains Term, ignoring case.
type KeywordFilter struct {
	Term   string
	Fields []string
}

// FieldFilter matches sightings whose Field contains Term, ignoring case.
type FieldFilter struct {
	Field string
	Term  string
}

// NearFilter matches sightings whose location lies within RadiusMiles of a point.
type NearFilter struct {
	Latitude    float64
	Longitude   float64
	RadiusMiles float64
}

// MatchAll matches every sighting.
type MatchAll struct{}

func (KeywordFilter) isFilter() {}
func (FieldFilter) isFilter()   {}
func (NearFilter) isFilter()    {}
func (MatchAll) isFilter()      {}

// RadiusRadians converts the search radius to radians on a sphere of EarthRadiusMiles.
func (f NearFilter) RadiusRadians() float64 {
	return f.RadiusMiles / EarthRadiusMiles
}

// SearchableFields are the fields accepted by field-specific search.
var SearchableFields = map[string]bool{
	"country":  true,
	"city":     true,
	"shape":    true,
	"comments": true,
	"state":    true,
}

// SearchableFieldNames returns the SearchableFields keys in sorted order.
func SearchableFieldNames() []string {
	names := make([]string, 0, len(SearchableFields))
	for name := range SearchableFields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FacetFields are the fields with distinct-value listings.
var FacetFields = map[string]bool{
	"country": true,
	"state":   true,
	"shape":   true,
}

// NewKeywordFilter builds a keyword search over KeywordFields.
func NewKeywordFilter(term string) (KeywordFilter, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return KeywordFilter{}, fmt.Errorf("%w: no search term provided", model.ErrInvalidQuery)
	}
	return KeywordFilter{Term: term, Fields: KeywordFields}, nil
}

// NewFieldFilter builds a single-field substring search.
func NewFieldFilter(field, term string) (FieldFilter, error) {
	if !SearchableFields[field] {
		return FieldFilter{}, fmt.Errorf("%w: field %q is not searchable", model.ErrInvalidQuery, field)
	}
	if term == "" {
		return FieldFilter{}, fmt.Errorf("%w: empty %s term", model.ErrInvalidQuery, field)
	}
	return FieldFilter{Field: field, Term: term}, nil
}

// NewNearFilter builds a radius search around (lat, lon).
func NewNearFilter(lat, lon, radiusMiles float64) (NearFilter, error) {
	for _, v := range []float64{lat, lon, radiusMiles} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return NearFilter{}, fmt.Errorf("%w: non-finite coordinate", model.ErrInvalidQuery)
		}
	}
	if lat < -90 || lat > 90 {
		return NearFilter{}, fmt.Errorf("%w: latitude out of range", model.ErrInvalidQuery)
	}
	if lon < -180 || lon > 180 {
		return NearFilter{}, fmt.Errorf("%w: longitude out of range", model.ErrInvalidQuery)
	}
	if radiusMiles < 0 {
		return NearFilter{}, fmt.Errorf("%w: negative radius", model.ErrInvalidQuery)
	}
	return NearFilter{Latitude: lat, Longitude: lon, RadiusMiles: radiusMiles}, nil
}
