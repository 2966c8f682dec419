package geo

import (
	"fmt"
	"strings"
)

// Unit is a distance unit accepted in location queries.
type Unit string

const (
	Kilometers Unit = "km"
	Miles      Unit = "mi"
)

const metersPerMile = 1609.344

// ParseUnit parses "km" or "mi" (case-insensitive).
func ParseUnit(s string) (Unit, error) {
	switch Unit(strings.ToLower(strings.TrimSpace(s))) {
	case Kilometers:
		return Kilometers, nil
	case Miles:
		return Miles, nil
	}
	return "", fmt.Errorf("unknown distance unit %q", s)
}

// Meters converts v expressed in u to meters.
func (u Unit) Meters(v float64) float64 {
	if u == Miles {
		return v * metersPerMile
	}
	return v * 1000
}
