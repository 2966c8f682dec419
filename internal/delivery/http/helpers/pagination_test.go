package helpers

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"eventsearch/internal/domain"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  domain.PaginationParams
	}{
		{"defaults", "", domain.PaginationParams{Page: 1, PageSize: DefaultPageSize}},
		{"explicit", "page=3&page_size=5", domain.PaginationParams{Page: 3, PageSize: 5}},
		{"clamped size", "page_size=1000", domain.PaginationParams{Page: 1, PageSize: MaxPageSize}},
		{"invalid values", "page=0&page_size=abc", domain.PaginationParams{Page: 1, PageSize: DefaultPageSize}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/search?"+tt.query, nil)
			assert.Equal(t, tt.want, ParsePagination(r))
		})
	}
}

func TestNewPaginationMeta(t *testing.T) {
	assert.Equal(t, PaginationMeta{Page: 2, PageSize: 20, Total: 41, TotalPages: 3},
		NewPaginationMeta(domain.PaginationParams{Page: 2, PageSize: 20}, 41))
	assert.Equal(t, 0, NewPaginationMeta(domain.PaginationParams{Page: 1}, 10).TotalPages)
}

func TestPage(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	assert.Equal(t, []int{1, 2}, Page(items, domain.PaginationParams{Page: 1, PageSize: 2}))
	assert.Equal(t, []int{5}, Page(items, domain.PaginationParams{Page: 3, PageSize: 2}))
	assert.Equal(t, []int{}, Page(items, domain.PaginationParams{Page: 4, PageSize: 2}))
}
