package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventsearch/internal/domain"
)

func TestGeoCache(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	c := NewGeoCache()

	_, err := c.Get(ctx, "berlin")
	require.ErrorIs(t, err, domain.ErrNotFound)

	place := &domain.Place{Name: "Berlin", Country: "DE", Point: domain.Point{Lat: 52.52, Lng: 13.40}}
	require.NoError(t, c.Put(ctx, &domain.GeoCacheEntry{Key: "berlin", Place: place, ExpiresAt: now.Add(time.Hour)}))
	require.NoError(t, c.Put(ctx, &domain.GeoCacheEntry{Key: "atlantis", ExpiresAt: now.Add(-time.Minute)}))

	got, err := c.Get(ctx, "berlin")
	require.NoError(t, err)
	assert.Equal(t, place, got.Place)

	n, err := c.PurgeExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, 1, c.Len())
}
