package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"eventsearch/internal/domain"
)

func TestFilterRepository_ListWithEmail(t *testing.T) {
	ctx := context.Background()
	modified := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	t.Run("returns filters", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		mock.ExpectQuery(`SELECT id, name, user_email, query, email, modification_time\s+FROM filters\s+WHERE email`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "user_email", "query", "email", "modification_time"}).
				AddRow(int64(1), "music", "ann@example.com", "#music @berlin", true, modified))

		got, err := NewFilterRepository(db).ListWithEmail(ctx)
		require.NoError(t, err)
		require.Equal(t, []*domain.Filter{{
			ID: 1, Name: "music", UserEmail: "ann@example.com", Query: "#music @berlin", Email: true, ModificationTime: modified,
		}}, got)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("db error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		mock.ExpectQuery(`FROM filters`).WillReturnError(sql.ErrConnDone)
		_, err = NewFilterRepository(db).ListWithEmail(ctx)
		require.ErrorIs(t, err, sql.ErrConnDone)
	})
}
