package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	gateway "github.com/syntrixbase/ufoatlas/internal/gateway/config"
	"github.com/syntrixbase/ufoatlas/internal/sighting"
	sightingtest "github.com/syntrixbase/ufoatlas/internal/sighting/testing"
)

var ptr = sightingtest.Ptr[string]

// createTestServer wires the handler over store and blobs and returns a mux
// with all routes registered.
func createTestServer(store sighting.Store, blobs sighting.BlobStore) *http.ServeMux {
	if blobs == nil {
		blobs = sightingtest.NewMemoryBlobStore()
	}
	svc := sighting.NewService(store, sighting.NewAttachmentEncoder(blobs, nil), nil)
	h := NewHandler(svc, gateway.Config{}, nil)
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	return mux
}

func do(t *testing.T, mux http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

type pageResponse struct {
	Data  []sighting.Summary `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

func decodePage(t *testing.T, rr *httptest.ResponseRecorder) pageResponse {
	t.Helper()
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var p pageResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &p))
	return p
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) APIError {
	t.Helper()
	var e APIError
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &e), rr.Body.String())
	return e
}

func seedFifteen(store *sightingtest.MemoryStore) {
	for i := 0; i < 15; i++ {
		store.Insert(&sighting.Sighting{
			City:     ptr(fmt.Sprintf("Springfield %d", i)),
			State:    ptr("il"),
			Country:  ptr("us"),
			Shape:    ptr("disk"),
			Comments: ptr("Bright TestComment over the lake"),
			Location: &sighting.Point{Type: "Point", Coordinates: []float64{-89.65, 39.78}},
		})
	}
	store.Insert(&sighting.Sighting{City: ptr("London"), Country: ptr("gb"), Comments: ptr("nothing")})
}

func TestNewHandler_NilServicePanics(t *testing.T) {
	assert.Panics(t, func() { NewHandler(nil, gateway.Config{}, nil) })
}

func TestSearchWord_Pagination(t *testing.T) {
	store := sightingtest.NewMemoryStore()
	seedFifteen(store)
	mux := createTestServer(store, nil)

	wantLens := map[string]int{"": 10, "1": 10, "2": 5, "3": 0}
	for page, want := range wantLens {
		target := "/search_word?q=TestComment"
		if page != "" {
			target += "&page=" + page
		}
		p := decodePage(t, do(t, mux, "GET", target, ""))
		assert.Len(t, p.Data, want, "page %q", page)
		assert.Equal(t, int64(15), p.Total, "page %q", page)
		assert.Equal(t, 10, p.Limit)
	}
}

func TestSearchWord_PagesDoNotOverlap(t *testing.T) {
	store := sightingtest.NewMemoryStore()
	seedFifteen(store)
	mux := createTestServer(store, nil)

	seen := map[string]bool{}
	for _, page := range []string{"1", "2"} {
		p := decodePage(t, do(t, mux, "GET", "/search_word?q=testcomment&page="+page, ""))
		for _, s := range p.Data {
			assert.False(t, seen[s.ID], "duplicate id %s", s.ID)
			seen[s.ID] = true
		}
	}
	assert.Len(t, seen, 15)
}

func TestSearchWord_EmptyDataIsArray(t *testing.T) {
	mux := createTestServer(sightingtest.NewMemoryStore(), nil)

	rr := do(t, mux, "GET", "/search_word?q=nothing-matches", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"data":[]`)
}

func TestSearchWord_MissingTerm(t *testing.T) {
	mux := createTestServer(sightingtest.NewMemoryStore(), nil)

	for _, target := range []string{"/search_word", "/search_word?q=", "/search_word?q=%20%20", "/search_word?q=&page=2", "/search_word?page=abc", "/search_word?q=%20&page=0"} {
		rr := do(t, mux, "GET", target, "")
		assert.Equal(t, http.StatusBadRequest, rr.Code, target)
		assert.Equal(t, "No search term provided", decodeError(t, rr).Message)
	}
}

func TestSearchWord_InvalidPage(t *testing.T) {
	mux := createTestServer(sightingtest.NewMemoryStore(), nil)

	for _, page := range []string{"0", "-1", "abc", "1.5"} {
		rr := do(t, mux, "GET", "/search_word?q=disk&page="+page, "")
		assert.Equal(t, http.StatusBadRequest, rr.Code, page)
		assert.Equal(t, "Invalid page", decodeError(t, rr).Message)
	}
}

func TestSearchWord_RegexMetacharactersAreLiteral(t *testing.T) {
	store := sightingtest.NewMemoryStore(
		&sighting.Sighting{Comments: ptr("lights (three) in a row")},
		&sighting.Sighting{Comments: ptr("three lights")},
	)
	mux := createTestServer(store, nil)

	p := decodePage(t, do(t, mux, "GET", "/search_word?q=(three)", ""))
	assert.Equal(t, int64(1), p.Total)
}

func TestSearchNearby(t *testing.T) {
	store := sightingtest.NewMemoryStore(
		&sighting.Sighting{City: ptr("Springfield"), Location: &sighting.Point{Type: "Point", Coordinates: []float64{-89.65, 39.78}}},
		&sighting.Sighting{City: ptr("Chicago"), Location: &sighting.Point{Type: "Point", Coordinates: []float64{-87.63, 41.88}}},
		&sighting.Sighting{City: ptr("Nowhere")},
	)
	mux := createTestServer(store, nil)

	p := decodePage(t, do(t, mux, "GET", "/search_nearby?lat=39.8&lon=-89.6&radius=25", ""))
	require.Len(t, p.Data, 1)
	assert.Equal(t, "Springfield", p.Data[0].City)
	require.NotNil(t, p.Data[0].Latitude)
	assert.Equal(t, 39.78, *p.Data[0].Latitude)
	assert.Equal(t, -89.65, *p.Data[0].Longitude)

	p = decodePage(t, do(t, mux, "GET", "/search_nearby?lat=39.8&lon=-89.6&radius=250&page=1", ""))
	assert.Equal(t, int64(2), p.Total)
}

func TestSearchNearby_InvalidParams(t *testing.T) {
	mux := createTestServer(sightingtest.NewMemoryStore(), nil)

	targets := []string{
		"/search_nearby",
		"/search_nearby?lat=40&lon=-80",
		"/search_nearby?lat=40&radius=10",
		"/search_nearby?lon=-80&radius=10",
		"/search_nearby?lat=abc&lon=-80&radius=10",
		"/search_nearby?lat=40&lon=west&radius=10",
		"/search_nearby?lat=40&lon=-80&radius=far",
		"/search_nearby?lat=91&lon=-80&radius=10",
		"/search_nearby?lat=40&lon=-181&radius=10",
		"/search_nearby?lat=40&lon=-80&radius=-1",
		"/search_nearby?lat=NaN&lon=-80&radius=10",
		"/search_nearby?lat=40&lon=-80&radius=10&page=0",
	}
	for _, target := range targets {
		rr := do(t, mux, "GET", target, "")
		assert.Equal(t, http.StatusBadRequest, rr.Code, target)
		assert.Equal(t, ErrCodeBadRequest, decodeError(t, rr).Code, target)
	}
}

func TestFieldSearch(t *testing.T) {
	store := sightingtest.NewMemoryStore()
	seedFifteen(store)
	mux := createTestServer(store, nil)

	tests := []struct {
		target string
		total  int64
	}{
		{"/sightings/country/US", 15},
		{"/sightings/country/gb", 1},
		{"/sightings/city/springfield%201", 6}, // "Springfield 1", "Springfield 10".."14"
		{"/sightings/shape/DISK", 15},
		{"/sightings/comments/lake", 15},
		{"/sightings/state/il", 15},
		{"/sightings/state/zz", 0},
	}
	for _, tt := range tests {
		p := decodePage(t, do(t, mux, "GET", tt.target, ""))
		assert.Equal(t, tt.total, p.Total, tt.target)
	}

	p := decodePage(t, do(t, mux, "GET", "/sightings/country/us?page=2", ""))
	assert.Len(t, p.Data, 5)
	assert.Equal(t, 2, p.Page)
}

func TestFieldSearch_UnknownField(t *testing.T) {
	mux := createTestServer(sightingtest.NewMemoryStore(), nil)

	rr := do(t, mux, "GET", "/sightings/datetime/2020", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestFieldSearch_StoreErrorsAreUniform(t *testing.T) {
	for _, field := range sighting.SearchableFieldNames() {
		store := new(sightingtest.MockStore)
		store.On("Find", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("connection reset by peer"))
		mux := createTestServer(store, nil)

		rr := do(t, mux, "GET", "/sightings/"+field+"/x", "")
		assert.Equal(t, http.StatusInternalServerError, rr.Code, field)
		e := decodeError(t, rr)
		assert.Equal(t, ErrCodeInternalError, e.Code)
		assert.Equal(t, "Internal server error", e.Message)
		assert.NotContains(t, rr.Body.String(), "connection reset")
	}
}

func TestSearch_CountError(t *testing.T) {
	store := new(sightingtest.MockStore)
	store.On("Find", mock.Anything, mock.Anything, mock.Anything).Return([]*sighting.Sighting{}, nil)
	store.On("Count", mock.Anything, mock.Anything).Return(int64(0), errors.New("count failed"))
	mux := createTestServer(store, nil)

	rr := do(t, mux, "GET", "/search_word?q=disk", "")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestSearch_ClientCanceled(t *testing.T) {
	store := new(sightingtest.MockStore)
	store.On("Find", mock.Anything, mock.Anything, mock.Anything).Return(nil, context.Canceled)
	mux := createTestServer(store, nil)

	rr := do(t, mux, "GET", "/search_word?q=disk", "")
	assert.Equal(t, 499, rr.Code)
	assert.Empty(t, rr.Body.String())
}

func TestSearchWord_HugePageIsEmpty(t *testing.T) {
	store := sightingtest.NewMemoryStore()
	seedFifteen(store)
	mux := createTestServer(store, nil)

	p := decodePage(t, do(t, mux, "GET", "/search_word?q=testcomment&page=1000000000000000000", ""))

	assert.Empty(t, p.Data)
	assert.Equal(t, int64(15), p.Total)
	assert.Equal(t, 1000000000000000000, p.Page)
}

func TestWriteJSON_UnencodableValueIsCleanError(t *testing.T) {
	rr := httptest.NewRecorder()
	writeJSON(rr, http.StatusOK, map[string]any{"duration": math.NaN()})

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, APIError{Code: ErrCodeInternalError, Message: msgInternalError}, decodeError(t, rr))
}

func TestGetSighting_NonFiniteExtraFieldIsNull(t *testing.T) {
	store := sightingtest.NewMemoryStore()
	id := store.Insert(&sighting.Sighting{
		City:  ptr("roswell"),
		Extra: map[string]any{"duration (seconds)": math.Inf(1), "duration (hours/min)": "5 min"},
	})
	mux := createTestServer(store, nil)

	rr := do(t, mux, "GET", "/sighting/"+id.Hex(), "")

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Contains(t, body, "duration (seconds)")
	assert.Nil(t, body["duration (seconds)"])
	assert.Equal(t, "5 min", body["duration (hours/min)"])
}
