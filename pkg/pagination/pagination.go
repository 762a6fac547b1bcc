package pagination

import (
	"net/url"
	"strconv"
)

const (
	DefaultPerPage = 30
	MaxPerPage     = 100
)

// Params selects one page of a list. Page is 1-based.
type Params struct {
	Page    int
	PerPage int
}

// FromQuery reads page and per_page. Missing, malformed or out-of-range
// values fall back to the defaults.
func FromQuery(q url.Values) Params {
	p := Params{Page: 1, PerPage: DefaultPerPage}

	if v, err := strconv.Atoi(q.Get("page")); err == nil && v > 0 {
		p.Page = v
	}
	if v, err := strconv.Atoi(q.Get("per_page")); err == nil && v > 0 && v <= MaxPerPage {
		p.PerPage = v
	}
	return p
}

// Page is one window over a list together with its position.
type Page[T any] struct {
	Items      []T  `json:"items"`
	Total      int  `json:"total"`
	Page       int  `json:"page"`
	PerPage    int  `json:"per_page"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// Slice returns the window of items selected by p. A page past the end
// yields an empty, non-nil Items slice.
func Slice[T any](items []T, p Params) Page[T] {
	if p.PerPage <= 0 {
		p.PerPage = DefaultPerPage
	}
	if p.Page <= 0 {
		p.Page = 1
	}

	total := len(items)
	totalPages := total / p.PerPage
	if total%p.PerPage > 0 {
		totalPages++
	}

	// Pages past the end start at total; checking before multiplying keeps
	// huge page numbers from overflowing.
	lo := total
	if p.Page-1 <= total/p.PerPage {
		lo = min((p.Page-1)*p.PerPage, total)
	}
	hi := lo + min(p.PerPage, total-lo)
	window := make([]T, hi-lo)
	copy(window, items[lo:hi])

	return Page[T]{
		Items:      window,
		Total:      total,
		Page:       p.Page,
		PerPage:    p.PerPage,
		TotalPages: totalPages,
		HasNext:    p.Page < totalPages,
		HasPrev:    p.Page > 1,
	}
}
