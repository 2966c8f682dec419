package query

import (
	"math"
	"strconv"
	"strings"
	"time"

	"eventsearch/internal/domain"
	"eventsearch/internal/geo"
)

// TermSeparator separates the OR-terms of a query.
const TermSeparator = " | "

// Options control how a term is compiled.
type Options struct {
	// Today anchors "@" in dates and the implicit future-only restriction.
	Today time.Time
	// DefaultUnit applies to distances written without km or mi.
	DefaultUnit geo.Unit
	// CityRadius is the radius in meters used for "@city, country".
	CityRadius float64
	// Broad treats the term as if it started with "* ".
	Broad bool
	// Related is the caller's request for relatedness expansion.
	Related bool
	// Continents validates "@@" codes. Without it the seven standard codes are accepted.
	Continents domain.ContinentBorders
}

var defaultContinentCodes = map[string]struct{}{
	"AF": {}, "AN": {}, "AS": {}, "EU": {}, "NA": {}, "OC": {}, "SA": {},
}

func knownContinent(c domain.ContinentBorders, code string) bool {
	if c == nil {
		_, ok := defaultContinentCodes[code]
		return ok
	}
	_, ok := c.Countries(code)
	return ok
}

// Plan is a compiled term.
type Plan struct {
	Term string
	// Base holds exclusions, structural filters and the date filter, but no free words.
	Base domain.Predicate
	// Words are the residual free words without a "+" prefix.
	Words []string
	// Strict are the "+" words with the prefix stripped.
	Strict []string
	Broad  bool
	// RelatedEligible is set when the caller asked for relatedness and the term has no
	// group, tag or event reference.
	RelatedEligible bool
}

// WordFields returns the fields free words of the plan are matched against.
func (p *Plan) WordFields() domain.Field {
	if p.Broad {
		return domain.BroadFields
	}
	return domain.NarrowFields
}

// Candidates returns the predicate for the non-related candidate set.
func (p *Plan) Candidates() domain.Predicate {
	if len(p.Words) == 0 {
		return p.Base
	}
	return p.Base.With(domain.MatchWords{Words: p.Words, Fields: p.WordFields()})
}

// SplitTerms splits a query into its OR-terms.
func SplitTerms(q string) []string {
	return strings.Split(q, TermSeparator)
}

// CompileTerm tokenizes and compiles one term.
func CompileTerm(term string, opts Options) (*Plan, error) {
	toks, err := Tokenize(term)
	if err != nil {
		return nil, err
	}
	return Compile(term, toks, opts)
}

// Compile builds a Plan from the tokens of a term. Restrictions are applied in a fixed
// order: exclusions, event references, groups, continents, locations, tags, dates and
// finally free words.
func Compile(term string, toks []Token, opts Options) (*Plan, error) {
	if opts.DefaultUnit == "" {
		opts.DefaultUnit = geo.Kilometers
	}
	byKind := make(map[Kind][]Token)
	for _, t := range toks {
		byKind[t.Kind] = append(byKind[t.Kind], t)
	}
	plan := &Plan{
		Term:  term,
		Broad: opts.Broad || len(byKind[KindBroad]) > 0,
	}
	var clauses []domain.Clause

	for _, t := range byKind[KindExclusion] {
		clauses = append(clauses, exclusionClause(t.Value))
	}
	for _, t := range byKind[KindEvent] {
		id, err := strconv.ParseInt(t.Value, 10, 64)
		if err != nil {
			return nil, domain.NewMalformedQuery(t.Text, "invalid event id")
		}
		clauses = append(clauses, domain.EventID{ID: id})
		plan.Broad = true
	}
	for _, t := range byKind[KindGroup] {
		clauses = append(clauses, domain.InGroup{Name: t.Value})
	}
	for _, t := range byKind[KindContinent] {
		if !knownContinent(opts.Continents, t.Value) {
			return nil, domain.NewMalformedQuery(t.Text, "unknown continent code")
		}
		clauses = append(clauses, domain.InContinent{Code: t.Value})
	}
	for _, t := range byKind[KindLocation] {
		spec, err := locationSpec(t, opts)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, domain.Located{Spec: spec})
	}
	for _, tag := range distinctFold(values(byKind[KindTag])) {
		clauses = append(clauses, domain.HasTag{Tag: tag})
	}
	clauses = append(clauses, dateClauses(byKind[KindDate], plan.Broad, opts.Today)...)

	for _, w := range distinct(values(byKind[KindWord])) {
		if strings.HasPrefix(w, "+") {
			if len(w) > 1 {
				plan.Strict = append(plan.Strict, w[1:])
			}
			continue
		}
		plan.Words = append(plan.Words, w)
	}

	plan.Base = domain.Predicate{Clauses: clauses}
	plan.RelatedEligible = opts.Related &&
		len(byKind[KindGroup]) == 0 && len(byKind[KindTag]) == 0 && len(byKind[KindEvent]) == 0
	return plan, nil
}

func exclusionClause(v string) domain.Clause {
	switch {
	case strings.HasPrefix(v, "#"):
		return domain.ExcludeTag{Tag: v[1:]}
	case strings.HasPrefix(v, "@"):
		return domain.ExcludePlace{Name: v[1:]}
	}
	return domain.ExcludeWord{Word: v}
}

func locationSpec(t Token, opts Options) (domain.LocationSpec, error) {
	lt := t.Location
	radius := func() (float64, error) {
		unit := opts.DefaultUnit
		if lt.Unit != "" {
			u, err := geo.ParseUnit(lt.Unit)
			if err != nil {
				return 0, domain.NewMalformedQuery(t.Text, err.Error())
			}
			unit = u
		}
		return unit.Meters(lt.Distance), nil
	}
	switch lt.Form {
	case FormBox:
		west, east, north, south := lt.Floats[0], lt.Floats[1], lt.Floats[2], lt.Floats[3]
		return domain.BoundingBox{
			SouthWest: domain.Point{Lat: math.Min(north, south), Lng: math.Min(west, east)},
			NorthEast: domain.Point{Lat: math.Max(north, south), Lng: math.Max(west, east)},
		}, nil
	case FormPoint:
		lat, lng := lt.Floats[0], lt.Floats[1]
		if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
			return nil, domain.NewMalformedQuery(t.Text, "coordinates out of range")
		}
		r, err := radius()
		if err != nil {
			return nil, err
		}
		return domain.PointRadius{Center: domain.Point{Lat: lat, Lng: lng}, Radius: r}, nil
	case FormNamed:
		r, err := radius()
		if err != nil {
			return nil, err
		}
		return domain.NamedPlace{Name: lt.Name, Radius: r}, nil
	}
	cc := domain.CityCountry{City: lt.Name, Country: lt.Country}
	if cc.Country != "" {
		cc.Radius = opts.CityRadius
	}
	return cc, nil
}

// dateClauses collapses the date tokens of each scope to their hull. Without any date
// token a narrow term only sees events with a date on or after today.
func dateClauses(toks []Token, broad bool, today time.Time) []domain.Clause {
	if len(toks) == 0 {
		if broad {
			return nil
		}
		return []domain.Clause{domain.UpcomingFrom{Day: domain.Day(today)}}
	}
	hulls := make(map[domain.DateScope]*domain.DateRange)
	var order []domain.DateScope
	for _, t := range toks {
		r := t.Date.Resolve(today)
		h, ok := hulls[r.Scope]
		if !ok {
			hulls[r.Scope] = &r
			order = append(order, r.Scope)
			continue
		}
		if r.From.Before(h.From) {
			h.From = r.From
		}
		if r.To.After(h.To) {
			h.To = r.To
		}
	}
	out := make([]domain.Clause, 0, len(order))
	for _, s := range order {
		out = append(out, *hulls[s])
	}
	return out
}

func values(toks []Token) []string {
	out := make([]string, len(toks))
	for i, t := range toks {
		out[i] = t.Value
	}
	return out
}

func distinct(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := in[:0:0]
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func distinctFold(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := in[:0:0]
	for _, s := range in {
		k := strings.ToLower(s)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, s)
	}
	return out
}
