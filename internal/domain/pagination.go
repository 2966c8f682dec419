package domain

// PaginationParams selects one page of a search result. The whole result is
// combined and ordered by upcoming date before a page is cut from it, so the
// pages of one query never overlap.
type PaginationParams struct {
	Page     int
	PageSize int
}

// Offset returns the index of the first result on the page (0-based).
func (p PaginationParams) Offset() int {
	if p.Page < 1 || p.PageSize < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// Bounds returns the half-open range [start, end) of the page within total
// results. A PageSize below 1 selects every result. A page past the last one
// is empty (start == end == total).
func (p PaginationParams) Bounds(total int) (start, end int) {
	if p.PageSize < 1 {
		return 0, total
	}
	start = min(p.Offset(), total)
	end = min(start+p.PageSize, total)
	return start, end
}

// TotalPages returns how many pages total results fill. It is 0 when PageSize is below 1.
func (p PaginationParams) TotalPages(total int) int {
	if p.PageSize < 1 {
		return 0
	}
	return (total + p.PageSize - 1) / p.PageSize
}
