package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"eventsearch/internal/domain"
)

type geoCacheRepository struct {
	DB *sql.DB
}

// NewGeoCacheRepository returns a domain.GeoCacheRepository backed by the geo_cache table.
func NewGeoCacheRepository(db *sql.DB) domain.GeoCacheRepository {
	return &geoCacheRepository{DB: db}
}

func (r *geoCacheRepository) Get(ctx context.Context, key string) (*domain.GeoCacheEntry, error) {
	var (
		found, quota  bool
		name, country sql.NullString
		lat, lng      sql.NullFloat64
		entry         = &domain.GeoCacheEntry{Key: key}
	)
	err := r.DB.QueryRowContext(ctx,
		`SELECT found, quota_exceeded, name, country, lat, lng, expires_at FROM geo_cache WHERE key = $1`, key,
	).Scan(&found, &quota, &name, &country, &lat, &lng, &entry.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if found {
		entry.Place = &domain.Place{
			Name:    name.String,
			Country: country.String,
			Point:   domain.Point{Lat: lat.Float64, Lng: lng.Float64},
		}
	} else {
		entry.QuotaExceeded = quota
	}
	return entry, nil
}

func (r *geoCacheRepository) Put(ctx context.Context, entry *domain.GeoCacheEntry) error {
	var (
		name, country sql.NullString
		lat, lng      sql.NullFloat64
	)
	if p := entry.Place; p != nil {
		name = sql.NullString{String: p.Name, Valid: true}
		country = sql.NullString{String: p.Country, Valid: true}
		lat = sql.NullFloat64{Float64: p.Point.Lat, Valid: true}
		lng = sql.NullFloat64{Float64: p.Point.Lng, Valid: true}
	}
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO geo_cache (key, found, quota_exceeded, name, country, lat, lng, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (key) DO UPDATE SET found = EXCLUDED.found, quota_exceeded = EXCLUDED.quota_exceeded,
		 name = EXCLUDED.name, country = EXCLUDED.country,
		 lat = EXCLUDED.lat, lng = EXCLUDED.lng, expires_at = EXCLUDED.expires_at`,
		entry.Key, entry.Place != nil, entry.Place == nil && entry.QuotaExceeded, name, country, lat, lng, entry.ExpiresAt)
	return err
}

func (r *geoCacheRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM geo_cache WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
