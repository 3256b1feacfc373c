package models

import (
	s "regdesk/pkg/string"
)

// DefaultPageSize matches the dashboard's fixed page length.
const DefaultPageSize = 10

// Filter is the explicit filter specification lowered to a store query.
// Search matches OR-wise across name, mobile, and aadhaar (case-insensitive
// for text); the remaining dimensions are exact matches combined with AND.
type Filter struct {
	Search string
	State  string
	City   string
	Gender string
}

// Normalize trims whitespace from every filter dimension.
func (f *Filter) Normalize() {
	if f == nil {
		return
	}
	s.TrimStrings(&f.Search, &f.State, &f.City, &f.Gender)
}

// IsZero reports whether no filter dimension is set.
func (f Filter) IsZero() bool {
	return f.Search == "" && f.State == "" && f.City == "" && f.Gender == ""
}

// Page selects one page of the filtered listing.
type Page struct {
	Number int
	Size   int
}

// Normalize clamps out-of-range values to their defaults.
func (p *Page) Normalize() {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size < 1 {
		p.Size = DefaultPageSize
	}
}

// Offset returns the number of records to skip.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}
