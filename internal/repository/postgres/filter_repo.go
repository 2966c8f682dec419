package postgres

import (
	"context"
	"database/sql"

	"eventsearch/internal/domain"
)

type filterRepository struct {
	DB *sql.DB
}

// NewFilterRepository returns a domain.FilterRepository implemented with Postgres.
func NewFilterRepository(db *sql.DB) domain.FilterRepository {
	return &filterRepository{DB: db}
}

func (r *filterRepository) ListWithEmail(ctx context.Context) ([]*domain.Filter, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, name, user_email, query, email, modification_time
		 FROM filters
		 WHERE email
		 ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var filters []*domain.Filter
	for rows.Next() {
		var f domain.Filter
		if err := rows.Scan(&f.ID, &f.Name, &f.UserEmail, &f.Query, &f.Email, &f.ModificationTime); err != nil {
			return nil, err
		}
		filters = append(filters, &f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return filters, nil
}
