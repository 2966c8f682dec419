package query

import "fmt"

// Kind classifies a token of a query term.
type Kind int

const (
	KindExclusion Kind = iota
	KindEvent
	KindGroup
	KindContinent
	KindLocation
	KindTag
	KindDate
	KindBroad
	KindWord
)

var kindNames = map[Kind]string{
	KindExclusion: "exclusion",
	KindEvent:     "event",
	KindGroup:     "group",
	KindContinent: "continent",
	KindLocation:  "location",
	KindTag:       "tag",
	KindDate:      "date",
	KindBroad:     "broad",
	KindWord:      "word",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Token is one classified piece of a term.
type Token struct {
	Kind Kind
	// Text is the source text the token was extracted from.
	Text string
	// Value is the operand: the word, tag, group, continent code or event id. For
	// exclusions it keeps the sigil ("#tag", "@place", "#", "@" or "word").
	Value string
	// Location is set for KindLocation.
	Location *LocationToken
	// Date is set for KindDate.
	Date *DateExpr
}

// LocationForm tells which of the location notations a LocationToken uses.
type LocationForm int

const (
	FormBox LocationForm = iota
	FormPoint
	FormNamed
	FormCityCountry
)

// LocationToken is the syntactic content of an @location token.
type LocationToken struct {
	Form LocationForm
	// Floats holds west, east, north, south for FormBox and lat, lng for FormPoint.
	Floats   []float64
	Name     string
	Country  string
	Distance float64
	// Unit is "km", "mi" or empty for the configured default.
	Unit string
}
