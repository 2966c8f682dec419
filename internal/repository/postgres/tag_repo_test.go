package postgres

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func TestTagRepository_Related(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		tags    []string
		mock    func(mock sqlmock.Sqlmock)
		want    []string
		wantErr bool
	}{
		{
			name: "co-occurring tags",
			tags: []string{"Python"},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT DISTINCT t2.name FROM tags t1`).
					WithArgs(pq.Array([]string{"python"})).
					WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("programming").AddRow("python"))
			},
			want: []string{"programming", "python"},
		},
		{
			name: "no input skips the query",
			tags: nil,
			mock: func(mock sqlmock.Sqlmock) {},
			want: nil,
		},
		{
			name: "db error",
			tags: []string{"go"},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT DISTINCT t2.name`).WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()
			tt.mock(mock)
			got, err := NewTagRepository(db).Related(ctx, tt.tags)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
