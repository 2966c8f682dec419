package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/lib/pq"

	"eventsearch/internal/domain"
)

type eventRepository struct {
	DB         *sql.DB
	continents domain.ContinentBorders
}

// NewEventRepository returns a domain.EventRepository implemented with Postgres and PostGIS.
// continents supplies country lists and borders for InContinent clauses.
func NewEventRepository(db *sql.DB, continents domain.ContinentBorders) domain.EventRepository {
	return &eventRepository{
		DB:         db,
		continents: continents,
	}
}

const selectEvents = `
		SELECT e.id, e.title, e.acronym, e.city, e.country, e.lat, e.lng, e.exact, e.address, e.description
		FROM events e
		WHERE `

func (r *eventRepository) Evaluate(ctx context.Context, p domain.Predicate) ([]*domain.Event, error) {
	b := &whereBuilder{continents: r.continents}
	for _, c := range p.Clauses {
		if err := b.add(c); err != nil {
			return nil, fmt.Errorf("build event query: %w", err)
		}
	}
	return r.list(ctx, selectEvents+b.where()+"\n\t\tORDER BY e.id", b.args...)
}

func (r *eventRepository) Get(ctx context.Context, id int64) (*domain.Event, error) {
	events, err := r.list(ctx, selectEvents+"e.id = $1", id)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, domain.ErrNotFound
	}
	return events[0], nil
}

func (r *eventRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Event, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []*domain.Event
	byID := make(map[int64]*domain.Event)
	for rows.Next() {
		e := &domain.Event{}
		var acronym, city, country, address, description sql.NullString
		var lat, lng sql.NullFloat64
		if err := rows.Scan(&e.ID, &e.Title, &acronym, &city, &country, &lat, &lng, &e.Exact, &address, &description); err != nil {
			return nil, err
		}
		e.Acronym, e.City, e.Country = acronym.String, city.String, country.String
		e.Address, e.Description = address.String, description.String
		if lat.Valid && lng.Valid {
			e.Coordinates = &domain.Point{Lat: lat.Float64, Lng: lng.Float64}
		}
		events = append(events, e)
		byID[e.ID] = e
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return events, nil
	}
	if err := r.loadDetails(ctx, byID); err != nil {
		return nil, err
	}
	return events, nil
}

// loadDetails fills tags, dates, urls, sessions and groups of the given events.
func (r *eventRepository) loadDetails(ctx context.Context, byID map[int64]*domain.Event) error {
	ids := make([]int64, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	arr := pq.Array(ids)

	details := []struct {
		what  string
		query string
		scan  func(rows *sql.Rows) (int64, func(*domain.Event), error)
	}{
		{"tags", `SELECT et.event_id, t.name FROM event_tags et JOIN tags t ON t.id = et.tag_id WHERE et.event_id = ANY($1) ORDER BY t.name`,
			func(rows *sql.Rows) (int64, func(*domain.Event), error) {
				var id int64
				var name string
				err := rows.Scan(&id, &name)
				return id, func(e *domain.Event) { e.Tags = append(e.Tags, name) }, err
			}},
		{"dates", `SELECT event_id, eventdate_name, eventdate_date FROM event_dates WHERE event_id = ANY($1) ORDER BY eventdate_date, eventdate_name`,
			func(rows *sql.Rows) (int64, func(*domain.Event), error) {
				var id int64
				var d domain.EventDate
				err := rows.Scan(&id, &d.Name, &d.Date)
				return id, func(e *domain.Event) { e.Dates = append(e.Dates, d) }, err
			}},
		{"urls", `SELECT event_id, url_name, url FROM event_urls WHERE event_id = ANY($1) ORDER BY url_name`,
			func(rows *sql.Rows) (int64, func(*domain.Event), error) {
				var id int64
				var u domain.EventURL
				err := rows.Scan(&id, &u.Name, &u.URL)
				return id, func(e *domain.Event) { e.URLs = append(e.URLs, u) }, err
			}},
		{"sessions", `SELECT event_id, session_name FROM event_sessions WHERE event_id = ANY($1) ORDER BY session_name`,
			func(rows *sql.Rows) (int64, func(*domain.Event), error) {
				var id int64
				var name string
				err := rows.Scan(&id, &name)
				return id, func(e *domain.Event) { e.Sessions = append(e.Sessions, name) }, err
			}},
		{"groups", `SELECT c.event_id, g.name FROM calendars c JOIN groups g ON g.id = c.group_id WHERE c.event_id = ANY($1) ORDER BY g.name`,
			func(rows *sql.Rows) (int64, func(*domain.Event), error) {
				var id int64
				var name string
				err := rows.Scan(&id, &name)
				return id, func(e *domain.Event) { e.Groups = append(e.Groups, name) }, err
			}},
	}
	for _, d := range details {
		if err := r.eachRow(ctx, d.query, arr, byID, d.scan); err != nil {
			return fmt.Errorf("load %s: %w", d.what, err)
		}
	}
	return nil
}

func (r *eventRepository) eachRow(ctx context.Context, query string, ids any, byID map[int64]*domain.Event,
	scan func(rows *sql.Rows) (int64, func(*domain.Event), error)) error {
	rows, err := r.DB.QueryContext(ctx, query, ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		id, apply, err := scan(rows)
		if err != nil {
			return err
		}
		if e, ok := byID[id]; ok {
			apply(e)
		}
	}
	return rows.Err()
}
