package domain

import "time"

// Predicate is a store-agnostic conjunction of clauses compiled from one query term.
// An empty predicate matches every event.
type Predicate struct {
	Clauses []Clause
}

// With returns a copy of p with the given clauses appended. p is not modified.
func (p Predicate) With(clauses ...Clause) Predicate {
	out := make([]Clause, 0, len(p.Clauses)+len(clauses))
	out = append(out, p.Clauses...)
	out = append(out, clauses...)
	return Predicate{Clauses: out}
}

// Clause is one restriction of a Predicate. The concrete types below are the closed set
// every EventStore must understand.
type Clause interface {
	isClause()
}

// ExcludeTag drops events having a tag containing Tag. An empty Tag drops every tagged event.
type ExcludeTag struct {
	Tag string
}

// ExcludePlace drops events whose city or country contains Name. An empty Name drops
// every event with any location data.
type ExcludePlace struct {
	Name string
}

// ExcludeWord drops events matching Word on the narrow fields.
type ExcludeWord struct {
	Word string
}

// EventID keeps only the event with the given identifier.
type EventID struct {
	ID int64
}

// InGroup keeps events belonging to the named group (case-insensitive).
type InGroup struct {
	Name string
}

// InContinent keeps events whose country is in the continent or whose coordinates lie
// within its borders.
type InContinent struct {
	Code string
}

// Located keeps events matching a location specification.
type Located struct {
	Spec LocationSpec
}

// HasTag keeps events carrying the tag (case-insensitive equality).
type HasTag struct {
	Tag string
}

// HasAnyTag keeps events carrying at least one of the tags.
type HasAnyTag struct {
	Tags []string
}

// DateScope selects which event dates a DateRange is compared with.
type DateScope int

const (
	// ScopeSpan compares the span from start to end (or start alone) for overlap.
	ScopeSpan DateScope = iota
	// ScopeDeadline compares user-named deadline dates.
	ScopeDeadline
)

func (s DateScope) String() string {
	if s == ScopeDeadline {
		return "deadline"
	}
	return "span"
}

// DateRange is an inclusive range of calendar days, always with From <= To.
type DateRange struct {
	From  time.Time
	To    time.Time
	Scope DateScope
}

// Overlaps reports whether the inclusive day interval [from, to] intersects r.
func (r DateRange) Overlaps(from, to time.Time) bool {
	return !Day(to).Before(r.From) && !Day(from).After(r.To)
}

// UpcomingFrom keeps events having at least one date on or after Day.
type UpcomingFrom struct {
	Day time.Time
}

// MatchWords keeps events matching every word on at least one of Fields.
type MatchWords struct {
	Words  []string
	Fields Field
}

func (ExcludeTag) isClause()   {}
func (ExcludePlace) isClause() {}
func (ExcludeWord) isClause()  {}
func (EventID) isClause()      {}
func (InGroup) isClause()      {}
func (InContinent) isClause()  {}
func (Located) isClause()      {}
func (HasTag) isClause()       {}
func (HasAnyTag) isClause()    {}
func (DateRange) isClause()    {}
func (UpcomingFrom) isClause() {}
func (MatchWords) isClause()   {}

// LocationSpec is one of PointRadius, NamedPlace, BoundingBox or CityCountry.
type LocationSpec interface {
	isLocationSpec()
}

// PointRadius matches events with coordinates within Radius meters of Center.
type PointRadius struct {
	Center Point
	Radius float64
}

// NamedPlace is a place name plus radius; it must be resolved to a PointRadius
// through a GeoResolver before evaluation.
type NamedPlace struct {
	Name   string
	Radius float64
}

// BoundingBox matches events with exact coordinates inside the rectangle.
type BoundingBox struct {
	SouthWest Point
	NorthEast Point
}

// Contains reports whether p lies inside the box (borders included).
func (b BoundingBox) Contains(p Point) bool {
	return p.Lat >= b.SouthWest.Lat && p.Lat <= b.NorthEast.Lat &&
		p.Lng >= b.SouthWest.Lng && p.Lng <= b.NorthEast.Lng
}

// CityCountry matches by name. Without Country, City is compared with both city and
// country. With Country, city and country must both match, or the event must lie within
// Radius meters of Near once Near has been resolved.
type CityCountry struct {
	City    string
	Country string
	Near    *Point
	Radius  float64
}

// NeedsResolution reports whether the spec still requires a geo lookup.
func (c CityCountry) NeedsResolution() bool {
	return c.Country != "" && c.Near == nil
}

func (PointRadius) isLocationSpec() {}
func (NamedPlace) isLocationSpec()  {}
func (BoundingBox) isLocationSpec() {}
func (CityCountry) isLocationSpec() {}
