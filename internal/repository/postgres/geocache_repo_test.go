package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"eventsearch/internal/domain"
)

func TestGeoCacheRepository_Get(t *testing.T) {
	ctx := context.Background()
	expires := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	cols := []string{"found", "quota_exceeded", "name", "country", "lat", "lng", "expires_at"}

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		want    *domain.GeoCacheEntry
		wantErr error
	}{
		{
			name: "positive entry",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT found, quota_exceeded, name, country, lat, lng, expires_at FROM geo_cache WHERE key = \$1`).
					WithArgs("berlin").
					WillReturnRows(sqlmock.NewRows(cols).AddRow(true, false, "Berlin", "DE", 52.52, 13.40, expires))
			},
			want: &domain.GeoCacheEntry{
				Key:       "berlin",
				Place:     &domain.Place{Name: "Berlin", Country: "DE", Point: domain.Point{Lat: 52.52, Lng: 13.40}},
				ExpiresAt: expires,
			},
		},
		{
			name: "negative entry",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM geo_cache`).
					WithArgs("berlin").
					WillReturnRows(sqlmock.NewRows(cols).AddRow(false, false, nil, nil, nil, nil, expires))
			},
			want: &domain.GeoCacheEntry{Key: "berlin", ExpiresAt: expires},
		},
		{
			name: "negative entry after quota refusal",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM geo_cache`).
					WithArgs("berlin").
					WillReturnRows(sqlmock.NewRows(cols).AddRow(false, true, nil, nil, nil, nil, expires))
			},
			want: &domain.GeoCacheEntry{Key: "berlin", QuotaExceeded: true, ExpiresAt: expires},
		},
		{
			name: "missing",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM geo_cache`).WithArgs("berlin").WillReturnError(sql.ErrNoRows)
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM geo_cache`).WithArgs("berlin").WillReturnError(sql.ErrConnDone)
			},
			wantErr: sql.ErrConnDone,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()
			tt.mock(mock)
			got, err := NewGeoCacheRepository(db).Get(ctx, "berlin")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestGeoCacheRepository_PutAndPurge(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewGeoCacheRepository(db)
	expires := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec(`INSERT INTO geo_cache .* ON CONFLICT \(key\) DO UPDATE`).
		WithArgs("berlin", true, false, "Berlin", "DE", 52.52, 13.40, expires).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Put(ctx, &domain.GeoCacheEntry{
		Key:       "berlin",
		Place:     &domain.Place{Name: "Berlin", Country: "DE", Point: domain.Point{Lat: 52.52, Lng: 13.40}},
		ExpiresAt: expires,
	}))

	mock.ExpectExec(`INSERT INTO geo_cache`).
		WithArgs("atlantis", false, false, nil, nil, nil, nil, expires).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Put(ctx, &domain.GeoCacheEntry{Key: "atlantis", ExpiresAt: expires}))

	mock.ExpectExec(`INSERT INTO geo_cache`).
		WithArgs("london, ca", false, true, nil, nil, nil, nil, expires).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Put(ctx, &domain.GeoCacheEntry{Key: "london, ca", QuotaExceeded: true, ExpiresAt: expires}))

	mock.ExpectExec(`DELETE FROM geo_cache WHERE expires_at <= \$1`).
		WithArgs(expires).
		WillReturnResult(sqlmock.NewResult(0, 3))
	n, err := repo.PurgeExpired(ctx, expires)
	require.NoError(t, err)
	require.Equal(t, int64(3), n)
	require.NoError(t, mock.ExpectationsWereMet())
}
