package models

import (
	"errors"
	"fmt"
)

// ErrNoPagination is returned when a results page carries no numeric page controls.
var ErrNoPagination = errors.New("no pagination found")

// NetworkError is a failed fetch. Status is zero when no HTTP response arrived.
type NetworkError struct {
	URL    string
	Status int
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("network error: %s (status %d): %v", e.URL, e.Status, e.Err)
	}
	return fmt.Sprintf("network error: %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsNetworkError reports whether err, or anything it wraps, is a NetworkError.
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// ExtractionError means the page did not have the structure the extractor expects.
type ExtractionError struct {
	Reason string
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil && e.Reason == "" {
		return "extraction error: " + e.Err.Error()
	}
	return "extraction error: " + e.Reason
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// ParseError is a malformed catalog row or numeric field. Callers absorb it per row.
type ParseError struct {
	Source string
	Line   int
	Field  string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("parse error: %s:%d field %q: %v", e.Source, e.Line, e.Field, e.Err)
	}
	return fmt.Sprintf("parse error: %s:%d: %v", e.Source, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// SerializationError wraps an export encoding or write failure.
type SerializationError struct {
	Format string
	Err    error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("%s export failed: %v", e.Format, e.Err)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}
