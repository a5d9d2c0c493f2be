package model

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when a sighting (or facet listing) does not exist
	ErrNotFound = errors.New("sighting not found")
	// ErrInvalidID is returned when an identifier is not a valid ObjectID hex string
	ErrInvalidID = errors.New("invalid sighting id")
	// ErrEmptyComment is returned when a user comment is blank after trimming
	ErrEmptyComment = errors.New("empty comment")
	// ErrInvalidQuery is returned when search parameters cannot form a filter
	ErrInvalidQuery = errors.New("invalid query")
	// ErrBlobUnavailable is returned when an attachment cannot be read from the blob store
	ErrBlobUnavailable = errors.New("blob unavailable")
	// ErrCanceled is returned when the operation is canceled by the client
	ErrCanceled = errors.New("operation canceled")
)

// WrapError wraps storage errors to model errors.
// It converts context.Canceled and context.DeadlineExceeded to ErrCanceled.
func WrapError(err error) error {
	if err == nil {
		return nil
	}
	if IsCanceled(err) {
		return ErrCanceled
	}
	return err
}

// IsCanceled returns true if the error is due to context cancellation or deadline exceeded.
// It checks both direct context errors and wrapped errors (e.g., from MongoDB driver).
func IsCanceled(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, ErrCanceled) {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "context canceled") || strings.Contains(errStr, "context deadline exceeded")
}
