package rest

import (
	"net/url"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// getValidator returns the shared validator instance.
func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// pageParams carries the optional 1-indexed page number.
type pageParams struct {
	Page *int `schema:"page" validate:"omitempty,min=1"`
}

type searchWordParams struct {
	Query string `schema:"q"`
	Page  *int   `schema:"page" validate:"omitempty,min=1"`
}

type searchNearbyParams struct {
	Latitude  *float64 `schema:"lat" validate:"required,gte=-90,lte=90"`
	Longitude *float64 `schema:"lon" validate:"required,gte=-180,lte=180"`
	Radius    *float64 `schema:"radius" validate:"required,gte=0"`
	Page      *int     `schema:"page" validate:"omitempty,min=1"`
}

// pageOrDefault returns the requested page, or 1 when absent.
func pageOrDefault(page *int) int {
	if page == nil {
		return 1
	}
	return *page
}

// decodeQuery decodes URL query values into dst and validates the result.
func decodeQuery(dst interface{}, values url.Values) error {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)
	if err := decoder.Decode(dst, values); err != nil {
		return err
	}
	return getValidator().Struct(dst)
}
