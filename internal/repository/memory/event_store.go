package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"eventsearch/internal/domain"
	"eventsearch/internal/geo"
)

// EventStore keeps events in memory and evaluates predicates with the same semantics as
// the Postgres store. It also serves tag relatedness from the stored events.
type EventStore struct {
	mu         sync.RWMutex
	events     map[int64]*domain.Event
	continents domain.ContinentBorders
}

var (
	_ domain.EventRepository = (*EventStore)(nil)
	_ domain.TagRelatedness  = (*EventStore)(nil)
)

// NewEventStore returns a store holding events. continents answers InContinent clauses.
func NewEventStore(continents domain.ContinentBorders, events ...*domain.Event) *EventStore {
	s := &EventStore{events: make(map[int64]*domain.Event), continents: continents}
	s.Add(events...)
	return s
}

// Add inserts or replaces events by ID.
func (s *EventStore) Add(events ...*domain.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range events {
		s.events[e.ID] = e
	}
}

// Get returns the event with id or domain.ErrNotFound.
func (s *EventStore) Get(_ context.Context, id int64) (*domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return e, nil
}

// Evaluate returns the events matching every clause of p, ordered by ID.
func (s *EventStore) Evaluate(ctx context.Context, p domain.Predicate) ([]*domain.Event, error) {
	for _, c := range p.Clauses {
		if err := s.check(c); err != nil {
			return nil, err
		}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.Event
	for _, e := range s.events {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if s.matchesAll(e, p.Clauses) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// check rejects clauses that cannot be evaluated without a geo lookup.
func (s *EventStore) check(c domain.Clause) error {
	switch c := c.(type) {
	case domain.Located:
		switch spec := c.Spec.(type) {
		case domain.NamedPlace:
			return fmt.Errorf("memory store: unresolved named place %q", spec.Name)
		case domain.CityCountry:
			if spec.NeedsResolution() {
				return fmt.Errorf("memory store: unresolved place %q, %q", spec.City, spec.Country)
			}
		}
	case domain.InContinent:
		if s.continents == nil {
			return fmt.Errorf("memory store: no continent data for %s", c.Code)
		}
	}
	return nil
}

func (s *EventStore) matchesAll(e *domain.Event, clauses []domain.Clause) bool {
	for _, c := range clauses {
		if !s.matches(e, c) {
			return false
		}
	}
	return true
}

func (s *EventStore) matches(e *domain.Event, c domain.Clause) bool {
	switch c := c.(type) {
	case domain.ExcludeTag:
		if c.Tag == "" {
			return len(e.Tags) == 0
		}
		for _, t := range e.Tags {
			if containsFold(t, c.Tag) {
				return false
			}
		}
		return true
	case domain.ExcludePlace:
		if c.Name == "" {
			return !e.HasLocation()
		}
		return !containsFold(e.City, c.Name) && !containsFold(e.Country, c.Name)
	case domain.ExcludeWord:
		return !e.MatchesWord(c.Word, domain.NarrowFields)
	case domain.EventID:
		return e.ID == c.ID
	case domain.InGroup:
		for _, g := range e.Groups {
			if strings.EqualFold(g, c.Name) {
				return true
			}
		}
		return false
	case domain.InContinent:
		return s.inContinent(e, c.Code)
	case domain.Located:
		return located(e, c.Spec)
	case domain.HasTag:
		return e.HasTag(c.Tag)
	case domain.HasAnyTag:
		for _, t := range c.Tags {
			if e.HasTag(t) {
				return true
			}
		}
		return false
	case domain.DateRange:
		return inDateRange(e, c)
	case domain.UpcomingFrom:
		for _, d := range e.Dates {
			if !domain.Day(d.Date).Before(c.Day) {
				return true
			}
		}
		return false
	case domain.MatchWords:
		for _, w := range c.Words {
			if !e.MatchesWord(w, c.Fields) {
				return false
			}
		}
		return true
	}
	return false
}

func (s *EventStore) inContinent(e *domain.Event, code string) bool {
	if countries, ok := s.continents.Countries(code); ok && e.Country != "" {
		for _, cc := range countries {
			if strings.EqualFold(cc, e.Country) {
				return true
			}
		}
	}
	return e.Coordinates != nil && s.continents.Contains(code, *e.Coordinates)
}

func located(e *domain.Event, spec domain.LocationSpec) bool {
	switch spec := spec.(type) {
	case domain.PointRadius:
		return e.Coordinates != nil && geo.WithinRadius(*e.Coordinates, spec.Center, spec.Radius)
	case domain.BoundingBox:
		return e.Coordinates != nil && e.Exact && spec.Contains(*e.Coordinates)
	case domain.CityCountry:
		if spec.Country == "" {
			return strings.EqualFold(e.City, spec.City) || strings.EqualFold(e.Country, spec.City)
		}
		if strings.EqualFold(e.City, spec.City) && strings.EqualFold(e.Country, spec.Country) {
			return true
		}
		return spec.Near != nil && e.Coordinates != nil &&
			geo.WithinRadius(*e.Coordinates, *spec.Near, spec.Radius)
	}
	return false
}

func inDateRange(e *domain.Event, r domain.DateRange) bool {
	if r.Scope == domain.ScopeDeadline {
		for _, d := range e.Dates {
			if d.IsDeadline() && r.Overlaps(d.Date, d.Date) {
				return true
			}
		}
		return false
	}
	start, ok := e.Start()
	if !ok {
		return false
	}
	end, ok := e.End()
	if !ok {
		end = start
	}
	return r.Overlaps(start, end)
}

// Related returns the tags of events that carry any of tags, sorted.
func (s *EventStore) Related(ctx context.Context, tags []string) ([]string, error) {
	if len(tags) == 0 {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]struct{})
	for _, e := range s.events {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		hit := false
		for _, t := range tags {
			if e.HasTag(t) {
				hit = true
				break
			}
		}
		if !hit {
			continue
		}
		for _, t := range e.Tags {
			seen[t] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out, nil
}

func containsFold(s, sub string) bool {
	return s != "" && strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
