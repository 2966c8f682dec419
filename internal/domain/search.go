package domain

import "context"

// SearchRequest is one search call.
type SearchRequest struct {
	// Query is the raw query string; terms are separated by " | ".
	Query string
	// Related enables tag relatedness expansion for eligible terms.
	Related bool
	// Broad treats every term as if it started with "* ".
	Broad bool
}

// SearchService compiles and evaluates free-text event queries.
type SearchService interface {
	// Search returns the distinct matching events ordered by upcoming date.
	// An empty query yields an empty result without touching the store.
	Search(ctx context.Context, req SearchRequest) ([]*Event, error)
}

// CalendarEncoder renders events as an iCalendar feed.
type CalendarEncoder interface {
	Encode(name string, events []*Event) []byte
}
