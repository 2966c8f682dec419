package domain

import (
	"context"
	"strconv"
	"strings"
	"time"
)

// Reserved names for event dates. Any other name is a user-named deadline.
const (
	DateStart   = "start"
	DateEnd     = "end"
	DateOngoing = "ongoing"
)

// Point is a WGS84 coordinate.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// EventDate is a named date of an event (start, end, ongoing or a deadline).
type EventDate struct {
	Name string    `json:"name"`
	Date time.Time `json:"date"`
}

// IsDeadline reports whether the date is a user-named deadline.
func (d EventDate) IsDeadline() bool {
	switch d.Name {
	case DateStart, DateEnd, DateOngoing:
		return false
	}
	return true
}

// EventURL is a named link attached to an event.
type EventURL struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Event represents a calendar event as seen by the search engine.
// swagger:model Event
type Event struct {
	ID          int64       `json:"id"`
	Title       string      `json:"title"`
	Acronym     string      `json:"acronym,omitempty"`
	Tags        []string    `json:"tags"`
	City        string      `json:"city,omitempty"`
	Country     string      `json:"country,omitempty"`
	Coordinates *Point      `json:"coordinates,omitempty"`
	Exact       bool        `json:"exact"`
	Address     string      `json:"address,omitempty"`
	Description string      `json:"description,omitempty"`
	Dates       []EventDate `json:"dates"`
	URLs        []EventURL  `json:"urls,omitempty"`
	Sessions    []string    `json:"sessions,omitempty"`
	Groups      []string    `json:"groups,omitempty"`
}

// Start returns the start date of the event and whether it is set.
func (e *Event) Start() (time.Time, bool) {
	return e.named(DateStart)
}

// End returns the end date of the event and whether it is set.
func (e *Event) End() (time.Time, bool) {
	return e.named(DateEnd)
}

func (e *Event) named(name string) (time.Time, bool) {
	for _, d := range e.Dates {
		if d.Name == name {
			return d.Date, true
		}
	}
	return time.Time{}, false
}

// HasLocation reports whether any location data (city, country, coordinates or address) is set.
func (e *Event) HasLocation() bool {
	return e.City != "" || e.Country != "" || e.Coordinates != nil || e.Address != ""
}

// Place returns "city, country" with empty parts left out.
func (e *Event) Place() string {
	parts := make([]string, 0, 2)
	for _, p := range []string{e.City, e.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// ShowURL returns the public page of the event on siteDomain.
func (e *Event) ShowURL(siteDomain string) string {
	return "https://" + siteDomain + "/e/show/" + strconv.FormatInt(e.ID, 10) + "/"
}

// Upcoming returns the earliest of the event's dates that is on or after today.
// If none is, it falls back to the start date.
func (e *Event) Upcoming(today time.Time) time.Time {
	today = Day(today)
	var best time.Time
	found := false
	for _, d := range e.Dates {
		day := Day(d.Date)
		if day.Before(today) {
			continue
		}
		if !found || day.Before(best) {
			best, found = day, true
		}
	}
	if found {
		return best
	}
	start, _ := e.Start()
	return Day(start)
}

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// EventStore evaluates compiled predicates against stored events.
// Results are distinct by event ID; ordering is left to the caller.
type EventStore interface {
	Evaluate(ctx context.Context, p Predicate) ([]*Event, error)
}

// EventGetter loads a single event by ID. It returns ErrNotFound for unknown IDs.
type EventGetter interface {
	Get(ctx context.Context, id int64) (*Event, error)
}

// EventRepository is the read side of event storage used by search and notifications.
type EventRepository interface {
	EventStore
	EventGetter
}
