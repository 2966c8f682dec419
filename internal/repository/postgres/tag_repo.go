package postgres

import (
	"context"
	"database/sql"
	"strings"

	"github.com/lib/pq"

	"eventsearch/internal/domain"
)

type tagRepository struct {
	DB *sql.DB
}

// NewTagRepository returns a domain.TagRelatedness implemented with Postgres.
func NewTagRepository(db *sql.DB) domain.TagRelatedness {
	return &tagRepository{DB: db}
}

// Related returns the tags attached to events that also carry one of tags.
func (r *tagRepository) Related(ctx context.Context, tags []string) ([]string, error) {
	if len(tags) == 0 {
		return nil, nil
	}
	lower := make([]string, len(tags))
	for i, t := range tags {
		lower[i] = strings.ToLower(t)
	}
	rows, err := r.DB.QueryContext(ctx,
		`SELECT DISTINCT t2.name FROM tags t1
		 JOIN event_tags et1 ON et1.tag_id = t1.id
		 JOIN event_tags et2 ON et2.event_id = et1.event_id
		 JOIN tags t2 ON t2.id = et2.tag_id
		 WHERE lower(t1.name) = ANY($1)
		 ORDER BY t2.name`, pq.Array(lower))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var related []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		related = append(related, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return related, nil
}
