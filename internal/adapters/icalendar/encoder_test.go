package icalendar

import (
	"bytes"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventsearch/internal/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestEncoder_Encode(t *testing.T) {
	enc := &encoder{siteName: "GriCal", siteDomain: "grical.org", now: func() time.Time { return day(2024, 6, 1) }}
	events := []*domain.Event{
		{
			ID: 7, Title: "Summer Jam", City: "Berlin", Country: "DE", Tags: []string{"music", "jazz"},
			Description: "Open air",
			Dates: []domain.EventDate{
				{Name: domain.DateStart, Date: day(2024, 6, 2)},
				{Name: domain.DateEnd, Date: day(2024, 6, 4)},
			},
		},
		{ID: 8, Title: "One day", Dates: []domain.EventDate{{Name: domain.DateStart, Date: day(2024, 7, 1)}}},
		{ID: 9, Title: "No start", Dates: []domain.EventDate{{Name: "call for papers", Date: day(2024, 5, 1)}}},
	}

	out := enc.Encode("#jazz @berlin", events)

	cal, err := ical.ParseCalendar(bytes.NewReader(out))
	require.NoError(t, err)
	vevents := cal.Events()
	require.Len(t, vevents, 2)

	first := vevents[0]
	assert.Equal(t, "7@grical.org", first.GetProperty(ical.ComponentPropertyUniqueId).Value)
	assert.Equal(t, "Summer Jam", first.GetProperty(ical.ComponentPropertySummary).Value)
	assert.Equal(t, "20240602", first.GetProperty(ical.ComponentPropertyDtStart).Value)
	assert.Equal(t, "20240605", first.GetProperty(ical.ComponentPropertyDtEnd).Value)
	assert.Equal(t, "https://grical.org/e/show/7/", first.GetProperty(ical.ComponentPropertyUrl).Value)
	require.NotNil(t, first.GetProperty(ical.ComponentPropertyLocation))

	second := vevents[1]
	assert.Equal(t, "8@grical.org", second.GetProperty(ical.ComponentPropertyUniqueId).Value)
	assert.Equal(t, "20240702", second.GetProperty(ical.ComponentPropertyDtEnd).Value)
	assert.Nil(t, second.GetProperty(ical.ComponentPropertyDescription))
}

func TestEncoder_EmptyFeed(t *testing.T) {
	out := NewEncoder("GriCal", "grical.org").Encode("", nil)
	cal, err := ical.ParseCalendar(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Empty(t, cal.Events())
}

func TestLocation(t *testing.T) {
	assert.Equal(t, "Main St 1, Berlin, DE", location(&domain.Event{Address: "Main St 1", City: "Berlin", Country: "DE"}))
	assert.Equal(t, "", location(&domain.Event{}))
}
