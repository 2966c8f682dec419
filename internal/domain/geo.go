package domain

import (
	"context"
	"time"
)

// Place is the result of resolving a place name.
type Place struct {
	Name    string `json:"name"`
	Country string `json:"country"`
	Point   Point  `json:"point"`
}

// GeoResolver resolves a place name (e.g. "berlin" or "london, ca") to a coordinate.
// It returns ErrPlaceNotFound when there is no match and ErrGeoQuotaExceeded when the
// upstream service refuses further lookups.
type GeoResolver interface {
	Resolve(ctx context.Context, name string) (*Place, error)
}

// GeoCacheEntry is a cached lookup result. Place is nil for negative entries.
type GeoCacheEntry struct {
	Key   string
	Place *Place
	// QuotaExceeded marks a negative entry written after the upstream refused the lookup.
	QuotaExceeded bool
	ExpiresAt     time.Time
}

// Err returns the lookup error a negative entry stands for, or nil for a positive one.
func (e *GeoCacheEntry) Err() error {
	switch {
	case e.Place != nil:
		return nil
	case e.QuotaExceeded:
		return ErrGeoQuotaExceeded
	default:
		return ErrPlaceNotFound
	}
}

// Expired reports whether the entry is stale at now.
func (e *GeoCacheEntry) Expired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}

// GeoCacheRepository stores geo lookup results keyed by normalized place name.
type GeoCacheRepository interface {
	// Get returns ErrNotFound when there is no entry for key.
	Get(ctx context.Context, key string) (*GeoCacheEntry, error)
	Put(ctx context.Context, entry *GeoCacheEntry) error
	// PurgeExpired deletes entries expired at now and returns how many were removed.
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

// ContinentBorders answers continent membership questions.
type ContinentBorders interface {
	// Countries returns the ISO country codes of the continent.
	Countries(code string) ([]string, bool)
	// Contains reports whether p lies within the continent's borders.
	Contains(code string, p Point) bool
	// BorderWKT returns the continent's border as a WKT multipolygon (lng lat order).
	BorderWKT(code string) (string, bool)
}
