package postgres

import (
	"fmt"
	"strings"

	"github.com/lib/pq"

	"eventsearch/internal/domain"
)

// whereBuilder renders predicate clauses as SQL conditions over "events e" with
// positional arguments.
type whereBuilder struct {
	args       []any
	conds      []string
	continents domain.ContinentBorders
}

func (b *whereBuilder) arg(v any) string {
	b.args = append(b.args, v)
	return fmt.Sprintf("$%d", len(b.args))
}

func (b *whereBuilder) where() string {
	if len(b.conds) == 0 {
		return "TRUE"
	}
	return strings.Join(b.conds, " AND ")
}

// likePattern returns a case-insensitive substring pattern for ILIKE.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

const (
	tagExists = `EXISTS (SELECT 1 FROM event_tags et JOIN tags t ON t.id = et.tag_id WHERE et.event_id = e.id AND %s)`
	hasCoords = `e.lat IS NOT NULL AND e.lng IS NOT NULL`
)

func (b *whereBuilder) add(c domain.Clause) error {
	switch c := c.(type) {
	case domain.ExcludeTag:
		if c.Tag == "" {
			b.conds = append(b.conds, `NOT EXISTS (SELECT 1 FROM event_tags et WHERE et.event_id = e.id)`)
			return nil
		}
		b.conds = append(b.conds, "NOT "+fmt.Sprintf(tagExists, "t.name ILIKE "+b.arg(likePattern(c.Tag))))
	case domain.ExcludePlace:
		if c.Name == "" {
			b.conds = append(b.conds, `(COALESCE(e.city, '') = '' AND COALESCE(e.country, '') = '' AND e.lat IS NULL AND COALESCE(e.address, '') = '')`)
			return nil
		}
		p := b.arg(likePattern(c.Name))
		b.conds = append(b.conds, fmt.Sprintf(`NOT (COALESCE(e.city, '') ILIKE %s OR COALESCE(e.country, '') ILIKE %s)`, p, p))
	case domain.ExcludeWord:
		b.conds = append(b.conds, "NOT "+b.word(c.Word, domain.NarrowFields))
	case domain.EventID:
		b.conds = append(b.conds, "e.id = "+b.arg(c.ID))
	case domain.InGroup:
		b.conds = append(b.conds, fmt.Sprintf(
			`EXISTS (SELECT 1 FROM calendars c JOIN groups g ON g.id = c.group_id WHERE c.event_id = e.id AND lower(g.name) = lower(%s))`,
			b.arg(c.Name)))
	case domain.InContinent:
		return b.continent(c.Code)
	case domain.Located:
		return b.location(c.Spec)
	case domain.HasTag:
		b.conds = append(b.conds, fmt.Sprintf(tagExists, "lower(t.name) = lower("+b.arg(c.Tag)+")"))
	case domain.HasAnyTag:
		lower := make([]string, len(c.Tags))
		for i, t := range c.Tags {
			lower[i] = strings.ToLower(t)
		}
		b.conds = append(b.conds, fmt.Sprintf(tagExists, "lower(t.name) = ANY("+b.arg(pq.Array(lower))+")"))
	case domain.DateRange:
		from, to := b.arg(c.From), b.arg(c.To)
		if c.Scope == domain.ScopeDeadline {
			b.conds = append(b.conds, fmt.Sprintf(
				`EXISTS (SELECT 1 FROM event_dates d WHERE d.event_id = e.id AND d.eventdate_name NOT IN ('start', 'end', 'ongoing') AND d.eventdate_date BETWEEN %s AND %s)`,
				from, to))
			return nil
		}
		b.conds = append(b.conds, fmt.Sprintf(
			`EXISTS (SELECT 1 FROM event_dates s LEFT JOIN event_dates n ON n.event_id = s.event_id AND n.eventdate_name = 'end' WHERE s.event_id = e.id AND s.eventdate_name = 'start' AND s.eventdate_date <= %s AND COALESCE(n.eventdate_date, s.eventdate_date) >= %s)`,
			to, from))
	case domain.UpcomingFrom:
		b.conds = append(b.conds, fmt.Sprintf(
			`EXISTS (SELECT 1 FROM event_dates d WHERE d.event_id = e.id AND d.eventdate_date >= %s)`, b.arg(c.Day)))
	case domain.MatchWords:
		for _, w := range c.Words {
			b.conds = append(b.conds, b.word(w, c.Fields))
		}
	default:
		return fmt.Errorf("unsupported clause %T", c)
	}
	return nil
}

func (b *whereBuilder) continent(code string) error {
	if b.continents == nil {
		return fmt.Errorf("no continent data for %s", code)
	}
	countries, ok := b.continents.Countries(code)
	if !ok {
		return fmt.Errorf("unknown continent %s", code)
	}
	cond := "upper(e.country) = ANY(" + b.arg(pq.Array(countries)) + ")"
	if wkt, ok := b.continents.BorderWKT(code); ok {
		cond += fmt.Sprintf(` OR (%s AND ST_Contains(ST_GeomFromText(%s, 4326), ST_SetSRID(ST_MakePoint(e.lng, e.lat), 4326)))`,
			hasCoords, b.arg(wkt))
	}
	b.conds = append(b.conds, "("+cond+")")
	return nil
}

func (b *whereBuilder) within(p domain.Point, meters float64) string {
	return fmt.Sprintf(`(%s AND ST_DWithin(ST_MakePoint(e.lng, e.lat)::geography, ST_MakePoint(%s, %s)::geography, %s))`,
		hasCoords, b.arg(p.Lng), b.arg(p.Lat), b.arg(meters))
}

func (b *whereBuilder) location(spec domain.LocationSpec) error {
	switch s := spec.(type) {
	case domain.PointRadius:
		b.conds = append(b.conds, b.within(s.Center, s.Radius))
	case domain.BoundingBox:
		b.conds = append(b.conds, fmt.Sprintf(`(e.exact AND %s AND e.lat BETWEEN %s AND %s AND e.lng BETWEEN %s AND %s)`,
			hasCoords, b.arg(s.SouthWest.Lat), b.arg(s.NorthEast.Lat), b.arg(s.SouthWest.Lng), b.arg(s.NorthEast.Lng)))
	case domain.CityCountry:
		if s.NeedsResolution() {
			return fmt.Errorf("unresolved place %q, %q", s.City, s.Country)
		}
		if s.Country == "" {
			p := b.arg(s.City)
			b.conds = append(b.conds, fmt.Sprintf(`(lower(e.city) = lower(%s) OR lower(e.country) = lower(%s))`, p, p))
			return nil
		}
		b.conds = append(b.conds, fmt.Sprintf(`((lower(e.city) = lower(%s) AND lower(e.country) = lower(%s)) OR %s)`,
			b.arg(s.City), b.arg(s.Country), b.within(*s.Near, s.Radius)))
	case domain.NamedPlace:
		return fmt.Errorf("unresolved named place %q", s.Name)
	default:
		return fmt.Errorf("unsupported location %T", s)
	}
	return nil
}

// word renders the field-match rule for one free word: substring on text fields,
// equality on country and acronym. NULL columns compare as empty so that the
// condition can be negated.
func (b *whereBuilder) word(w string, fields domain.Field) string {
	like := b.arg(likePattern(w))
	var ors []string
	if fields.Has(domain.FieldTitle) {
		ors = append(ors, "COALESCE(e.title, '') ILIKE "+like)
	}
	if fields.Has(domain.FieldCity) {
		ors = append(ors, "COALESCE(e.city, '') ILIKE "+like)
	}
	if fields.Has(domain.FieldCountry) || fields.Has(domain.FieldAcronym) {
		eq := b.arg(strings.ToLower(w))
		if fields.Has(domain.FieldCountry) {
			ors = append(ors, "lower(COALESCE(e.country, '')) = "+eq)
		}
		if fields.Has(domain.FieldAcronym) {
			ors = append(ors, "lower(COALESCE(e.acronym, '')) = "+eq)
		}
	}
	if fields.Has(domain.FieldTags) {
		ors = append(ors, fmt.Sprintf(tagExists, "t.name ILIKE "+like))
	}
	if fields.Has(domain.FieldAddress) {
		ors = append(ors, "COALESCE(e.address, '') ILIKE "+like)
	}
	if fields.Has(domain.FieldDescription) {
		ors = append(ors, "COALESCE(e.description, '') ILIKE "+like)
	}
	if fields.Has(domain.FieldURLName) {
		ors = append(ors, `EXISTS (SELECT 1 FROM event_urls u WHERE u.event_id = e.id AND u.url_name ILIKE `+like+`)`)
	}
	if fields.Has(domain.FieldURL) {
		ors = append(ors, `EXISTS (SELECT 1 FROM event_urls u WHERE u.event_id = e.id AND u.url ILIKE `+like+`)`)
	}
	if fields.Has(domain.FieldDateName) {
		ors = append(ors, `EXISTS (SELECT 1 FROM event_dates d WHERE d.event_id = e.id AND d.eventdate_name ILIKE `+like+`)`)
	}
	if fields.Has(domain.FieldSession) {
		ors = append(ors, `EXISTS (SELECT 1 FROM event_sessions es WHERE es.event_id = e.id AND es.session_name ILIKE `+like+`)`)
	}
	if len(ors) == 0 {
		return "FALSE"
	}
	return "(" + strings.Join(ors, " OR ") + ")"
}
