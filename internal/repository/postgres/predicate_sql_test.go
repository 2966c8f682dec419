package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventsearch/internal/domain"
	"eventsearch/internal/geo"
)

func TestWhereBuilder(t *testing.T) {
	continents, err := geo.DefaultContinents()
	require.NoError(t, err)
	berlin := domain.Point{Lat: 52.52, Lng: 13.40}
	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		clause   domain.Clause
		contains []string
		args     []any
	}{
		{"exclude any tag", domain.ExcludeTag{}, []string{"NOT EXISTS (SELECT 1 FROM event_tags"}, nil},
		{"exclude tag", domain.ExcludeTag{Tag: "5_0%"}, []string{"NOT EXISTS", "t.name ILIKE $1"}, []any{`%5\_0\%%`}},
		{"exclude any place", domain.ExcludePlace{}, []string{"e.lat IS NULL", "COALESCE(e.address, '') = ''"}, nil},
		{"exclude place", domain.ExcludePlace{Name: "ber"}, []string{"NOT (COALESCE(e.city, '') ILIKE $1 OR COALESCE(e.country, '') ILIKE $1)"}, []any{"%ber%"}},
		{"exclude word", domain.ExcludeWord{Word: "spam"}, []string{"NOT (COALESCE(e.title, '') ILIKE $1", "lower(COALESCE(e.country, '')) = $2"}, []any{"%spam%", "spam"}},
		{"event id", domain.EventID{ID: 42}, []string{"e.id = $1"}, []any{int64(42)}},
		{"group", domain.InGroup{Name: "Europe"}, []string{"lower(g.name) = lower($1)"}, []any{"Europe"}},
		{"tag", domain.HasTag{Tag: "Go"}, []string{"lower(t.name) = lower($1)"}, []any{"Go"}},
		{"point radius", domain.Located{Spec: domain.PointRadius{Center: berlin, Radius: 10000}},
			[]string{"ST_DWithin(ST_MakePoint(e.lng, e.lat)::geography, ST_MakePoint($1, $2)::geography, $3)"}, []any{13.40, 52.52, 10000.0}},
		{"box", domain.Located{Spec: domain.BoundingBox{SouthWest: domain.Point{Lat: 1, Lng: 2}, NorthEast: domain.Point{Lat: 3, Lng: 4}}},
			[]string{"e.exact AND", "e.lat BETWEEN $1 AND $2 AND e.lng BETWEEN $3 AND $4"}, []any{1.0, 3.0, 2.0, 4.0}},
		{"city", domain.Located{Spec: domain.CityCountry{City: "berlin"}},
			[]string{"lower(e.city) = lower($1) OR lower(e.country) = lower($1)"}, []any{"berlin"}},
		{"city country", domain.Located{Spec: domain.CityCountry{City: "berlin", Country: "de", Near: &berlin, Radius: 5}},
			[]string{"lower(e.city) = lower($1) AND lower(e.country) = lower($2)", "ST_MakePoint($3, $4)::geography, $5"}, []any{"berlin", "de", 13.40, 52.52, 5.0}},
		{"span", domain.DateRange{From: from, To: to},
			[]string{"s.eventdate_name = 'start' AND s.eventdate_date <= $2", "COALESCE(n.eventdate_date, s.eventdate_date) >= $1"}, []any{from, to}},
		{"deadline", domain.DateRange{From: from, To: to, Scope: domain.ScopeDeadline},
			[]string{"NOT IN ('start', 'end', 'ongoing')", "BETWEEN $1 AND $2"}, []any{from, to}},
		{"upcoming", domain.UpcomingFrom{Day: from}, []string{"d.eventdate_date >= $1"}, []any{from}},
		{"broad words", domain.MatchWords{Words: []string{"talk"}, Fields: domain.BroadFields},
			[]string{"COALESCE(e.description, '') ILIKE $1", "u.url ILIKE $1", "es.session_name ILIKE $1", "d.eventdate_name ILIKE $1"}, []any{"%talk%", "talk"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &whereBuilder{continents: continents}
			require.NoError(t, b.add(tt.clause))
			sql := b.where()
			for _, frag := range tt.contains {
				assert.Contains(t, sql, frag)
			}
			assert.Equal(t, tt.args, b.args)
		})
	}
}

func TestWhereBuilderContinent(t *testing.T) {
	continents, err := geo.DefaultContinents()
	require.NoError(t, err)
	b := &whereBuilder{continents: continents}
	require.NoError(t, b.add(domain.InContinent{Code: "SA"}))

	sql := b.where()
	assert.Contains(t, sql, "upper(e.country) = ANY($1)")
	assert.Contains(t, sql, "ST_Contains(ST_GeomFromText($2, 4326)")
	require.Len(t, b.args, 2)
	assert.Contains(t, b.args[1], "MULTIPOLYGON")

	require.Error(t, (&whereBuilder{}).add(domain.InContinent{Code: "SA"}))
}

func TestWhereBuilderRejectsUnresolved(t *testing.T) {
	b := &whereBuilder{}
	assert.Error(t, b.add(domain.Located{Spec: domain.NamedPlace{Name: "berlin", Radius: 1}}))
	assert.Error(t, b.add(domain.Located{Spec: domain.CityCountry{City: "berlin", Country: "de"}}))
	assert.Equal(t, "TRUE", b.where())
}
