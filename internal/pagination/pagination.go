// Package pagination turns page/per_page query values into offsets and
// page counts. Pages are 1-based.
package pagination

import (
	"strconv"
	"strings"
)

const (
	DefaultPage    = 1
	DefaultPerPage = 10
	MaxPerPage     = 100
)

type Page struct {
	Number  int
	PerPage int
}

// FromQuery parses raw query values. Missing or unparsable values fall back
// to the defaults, page < 1 becomes the first page and per_page is capped at
// MaxPerPage.
func FromQuery(page, perPage string) Page {
	p := Page{
		Number:  atoiDefault(page, DefaultPage),
		PerPage: atoiDefault(perPage, DefaultPerPage),
	}
	if p.Number < 1 {
		p.Number = DefaultPage
	}
	if p.PerPage < 1 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	return p
}

func (p Page) Limit() int {
	return p.PerPage
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.PerPage
}

// TotalPages is the number of pages needed for total items, 0 when empty.
func (p Page) TotalPages(total int) int {
	if total <= 0 || p.PerPage <= 0 {
		return 0
	}
	return (total + p.PerPage - 1) / p.PerPage
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}
