package models

import "fmt"

// PageRange returns the 1-based positions of the first and last rows shown
// on a page. An empty result yields 0, 0.
func PageRange(page, size int, total int64) (start, end int64) {
	if total <= 0 {
		return 0, 0
	}
	start = int64(page-1)*int64(size) + 1
	end = min(int64(page)*int64(size), total)
	return start, end
}

// RangeLabel renders the pagination caption, e.g. "11–20 de 25"
func RangeLabel(page, size int, total int64) string {
	if total <= 0 {
		return "0 resultados"
	}
	start, end := PageRange(page, size, total)
	return fmt.Sprintf("%d–%d de %d", start, end, total)
}

// PaginationView drives the table's navigation controls
type PaginationView struct {
	Page       int
	Size       int
	TotalPages int
	Total      int64
	Label      string
	HasPrev    bool
	HasNext    bool
}

// NewPaginationView builds the controls for the current filters and the
// page the backend returned.
func NewPaginationView(filters PlanillaFilters, totalPages int, total int64) PaginationView {
	page := filters.FilterPage
	return PaginationView{
		Page:       page,
		Size:       filters.FilterSize,
		TotalPages: totalPages,
		Total:      total,
		Label:      RangeLabel(page, filters.FilterSize, total),
		HasPrev:    page > FirstPage,
		HasNext:    page < totalPages,
	}
}
