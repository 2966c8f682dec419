package domain

import "strings"

// Field is a bit set of event fields free words are matched against.
type Field uint16

const (
	FieldTitle Field = 1 << iota
	FieldCity
	FieldCountry
	FieldAcronym
	FieldTags
	FieldAddress
	FieldDescription
	FieldURLName
	FieldURL
	FieldDateName
	FieldSession
)

// NarrowFields are matched by plain words; BroadFields are matched by words of a broad term.
const (
	NarrowFields = FieldTitle | FieldCity | FieldCountry | FieldAcronym | FieldTags
	BroadFields  = NarrowFields | FieldAddress | FieldDescription | FieldURLName | FieldURL |
		FieldDateName | FieldSession
)

// Has reports whether f includes every bit of g.
func (f Field) Has(g Field) bool {
	return f&g == g
}

// MatchesWord reports whether word matches one of the given fields of e.
// Country and acronym compare by case-insensitive equality; every other field by
// case-insensitive substring.
func (e *Event) MatchesWord(word string, fields Field) bool {
	if word == "" {
		return true
	}
	lw := strings.ToLower(word)
	contains := func(s string) bool {
		return s != "" && strings.Contains(strings.ToLower(s), lw)
	}
	switch {
	case fields.Has(FieldTitle) && contains(e.Title):
		return true
	case fields.Has(FieldCity) && contains(e.City):
		return true
	case fields.Has(FieldCountry) && e.Country != "" && strings.EqualFold(e.Country, word):
		return true
	case fields.Has(FieldAcronym) && e.Acronym != "" && strings.EqualFold(e.Acronym, word):
		return true
	case fields.Has(FieldAddress) && contains(e.Address):
		return true
	case fields.Has(FieldDescription) && contains(e.Description):
		return true
	}
	if fields.Has(FieldTags) {
		for _, t := range e.Tags {
			if contains(t) {
				return true
			}
		}
	}
	for _, u := range e.URLs {
		if (fields.Has(FieldURLName) && contains(u.Name)) || (fields.Has(FieldURL) && contains(u.URL)) {
			return true
		}
	}
	if fields.Has(FieldDateName) {
		for _, d := range e.Dates {
			if contains(d.Name) {
				return true
			}
		}
	}
	if fields.Has(FieldSession) {
		for _, s := range e.Sessions {
			if contains(s) {
				return true
			}
		}
	}
	return false
}

// HasTag reports whether e carries tag (case-insensitive equality).
func (e *Event) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}
