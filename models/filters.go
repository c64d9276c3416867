package models

import (
	"net/url"
	"slices"
	"strconv"
)

// PageSizeOptions are the page sizes the planillas table offers
var PageSizeOptions = []int{5, 10, 20, 25}

const (
	DefaultPageSize = 10
	FirstPage       = 1
)

// PlanillaFilters is the query state of the planillas table.
// Changing any field except the page sends the table back to the first page.
type PlanillaFilters struct {
	FilterText string `json:"filterText" validate:"max=100"`
	DateFrom   string `json:"dateFrom" validate:"omitempty,datetime=2006-01-02"`
	DateTo     string `json:"dateTo" validate:"omitempty,datetime=2006-01-02"`
	FilterSize int    `json:"filterSize" validate:"oneof=5 10 20 25"`
	FilterPage int    `json:"filterPage" validate:"gte=1"`
}

// DefaultFilters is the state the table starts in
func DefaultFilters() PlanillaFilters {
	return PlanillaFilters{FilterSize: DefaultPageSize, FilterPage: FirstPage}
}

func (f PlanillaFilters) WithText(text string) PlanillaFilters {
	f.FilterText = text
	f.FilterPage = FirstPage
	return f
}

func (f PlanillaFilters) WithDateFrom(date string) PlanillaFilters {
	f.DateFrom = date
	f.FilterPage = FirstPage
	return f
}

func (f PlanillaFilters) WithDateTo(date string) PlanillaFilters {
	f.DateTo = date
	f.FilterPage = FirstPage
	return f
}

// WithSize changes the page size. Sizes outside PageSizeOptions fall back to the default.
func (f PlanillaFilters) WithSize(size int) PlanillaFilters {
	if !slices.Contains(PageSizeOptions, size) {
		size = DefaultPageSize
	}
	f.FilterSize = size
	f.FilterPage = FirstPage
	return f
}

// WithPage is the only transition that keeps the other fields untouched.
func (f PlanillaFilters) WithPage(page int) PlanillaFilters {
	if page < FirstPage {
		page = FirstPage
	}
	f.FilterPage = page
	return f
}

// Cleared drops the text and date filters and keeps the page size
func (f PlanillaFilters) Cleared() PlanillaFilters {
	return PlanillaFilters{FilterSize: f.FilterSize, FilterPage: FirstPage}
}

// HasActiveFilters reports whether any narrowing filter is set
func (f PlanillaFilters) HasActiveFilters() bool {
	return f.FilterText != "" || f.DateFrom != "" || f.DateTo != ""
}

// Values encodes the filters with the parameter names the backend expects
func (f PlanillaFilters) Values() url.Values {
	values := url.Values{}
	values.Set("filterText", f.FilterText)
	values.Set("dateFrom", f.DateFrom)
	values.Set("dateTo", f.DateTo)
	values.Set("filterSize", strconv.Itoa(f.FilterSize))
	values.Set("filterPage", strconv.Itoa(f.FilterPage))
	return values
}

// QueryString is Values encoded for links within the dashboard
func (f PlanillaFilters) QueryString() string {
	return f.Values().Encode()
}

// PageQuery is the query string for another page under the same filters
func (f PlanillaFilters) PageQuery(page int) string {
	return f.WithPage(page).QueryString()
}

// SizeQuery is the query string for another page size under the same filters
func (f PlanillaFilters) SizeQuery(size int) string {
	return f.WithSize(size).QueryString()
}
