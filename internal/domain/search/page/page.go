// Package page describes one page of search results and its pager.
package page

import (
	"math"

	"github.com/kailas-cloud/entitysearch/internal/normalize"
)

// EntriesPerPage is the fixed page size of entity search.
const EntriesPerPage = 25

// MaxPage is the highest page whose offset fits a 32-bit backend offset.
const MaxPage = math.MaxInt32/EntriesPerPage + 1

// Pager is the pagination metadata of a result page. Pages are 1-based.
type Pager struct {
	CurrentPage    int `json:"current_page"`
	EntriesPerPage int `json:"entries_per_page"`
	TotalEntries   int `json:"total_entries"`
}

// NewPager clamps current to at least 1 and a negative total to 0.
func NewPager(current, total int) Pager {
	if current < 1 {
		current = 1
	}
	if total < 0 {
		total = 0
	}
	return Pager{CurrentPage: current, EntriesPerPage: EntriesPerPage, TotalEntries: total}
}

// Offset is the backend offset of the current page.
func Offset(pageNum int) int {
	if pageNum < 1 {
		pageNum = 1
	}
	return (pageNum - 1) * EntriesPerPage
}

// Offset is the backend offset of the current page.
func (p Pager) Offset() int { return Offset(p.CurrentPage) }

// LastPage is the number of the last page (1 when there are no entries).
func (p Pager) LastPage() int {
	per := p.perPage()
	if p.TotalEntries == 0 {
		return 1
	}
	return (p.TotalEntries + per - 1) / per
}

// FirstEntry is the 1-based index of the first entry shown (0 if none).
func (p Pager) FirstEntry() int {
	if p.TotalEntries == 0 {
		return 0
	}
	return (p.CurrentPage-1)*p.perPage() + 1
}

// LastEntry is the 1-based index of the last entry shown.
func (p Pager) LastEntry() int {
	last := p.CurrentPage * p.perPage()
	if last > p.TotalEntries {
		return p.TotalEntries
	}
	return last
}

// Next returns the next page number, or 0 on the last page.
func (p Pager) Next() int {
	if p.CurrentPage >= p.LastPage() {
		return 0
	}
	return p.CurrentPage + 1
}

// Previous returns the previous page number, or 0 on the first page.
func (p Pager) Previous() int {
	if p.CurrentPage <= 1 {
		return 0
	}
	return p.CurrentPage - 1
}

func (p Pager) perPage() int {
	if p.EntriesPerPage <= 0 {
		return EntriesPerPage
	}
	return p.EntriesPerPage
}

// Page is one rendered page of a search.
type Page struct {
	Results []normalize.Result `json:"results"`
	Pager   Pager              `json:"pager"`
	Query   string             `json:"query"`
	// Failed is set when the backend request failed; Results is then empty.
	Failed bool `json:"query_failed"`
}

// Failed returns the page shown after a backend failure.
func Failed(query string, pageNum int) Page {
	return Page{Results: []normalize.Result{}, Pager: NewPager(pageNum, 0), Query: query, Failed: true}
}
