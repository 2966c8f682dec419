package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by repositories, resolvers and services.
var (
	ErrNotFound         = errors.New("not found")
	ErrMalformedQuery   = errors.New("malformed query")
	ErrGeoLookup        = errors.New("geo lookup failed")
	ErrPlaceNotFound    = errors.New("place not found")
	ErrGeoQuotaExceeded = errors.New("geo lookup quota exceeded")
)

// MalformedQueryError reports the part of a query that could not be parsed.
type MalformedQueryError struct {
	Fragment string
	Reason   string
}

func (e *MalformedQueryError) Error() string {
	return fmt.Sprintf("malformed query at %q: %s", e.Fragment, e.Reason)
}

// Is makes errors.Is(err, ErrMalformedQuery) true.
func (e *MalformedQueryError) Is(target error) bool {
	return target == ErrMalformedQuery
}

// NewMalformedQuery returns a MalformedQueryError for fragment.
func NewMalformedQuery(fragment, reason string) error {
	return &MalformedQueryError{Fragment: fragment, Reason: reason}
}

// GeoLookupError reports a place name that could not be resolved to coordinates.
type GeoLookupError struct {
	Name string
	Err  error
}

func (e *GeoLookupError) Error() string {
	return fmt.Sprintf("could not find coordinates for %q (%v); use explicit coordinates instead, e.g. @52.52,13.40+10km", e.Name, e.Err)
}

func (e *GeoLookupError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrGeoLookup) true.
func (e *GeoLookupError) Is(target error) bool {
	return target == ErrGeoLookup
}
