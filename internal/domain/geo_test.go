package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGeoCacheEntryErr(t *testing.T) {
	assert.NoError(t, (&GeoCacheEntry{Place: &Place{Name: "Berlin"}}).Err())
	assert.ErrorIs(t, (&GeoCacheEntry{}).Err(), ErrPlaceNotFound)
	assert.ErrorIs(t, (&GeoCacheEntry{QuotaExceeded: true}).Err(), ErrGeoQuotaExceeded)
}
