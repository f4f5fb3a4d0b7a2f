package scraper

import "sjsage522/jobworker/helpers"

// DefaultMaxPages is the page budget applied when a seed query does
// not specify one.
const DefaultMaxPages = 10

// Pager tracks pagination state for one seed query. Pages advance
// monotonically; there is no revisiting and the counter is the only
// cycle protection, which is adequate because the sources do not loop
// their pagination.
type Pager struct {
	current int
	max     int
}

// NewPager creates a pager with the given page budget; a non-positive
// budget falls back to DefaultMaxPages.
func NewPager(maxPages int) *Pager {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	return &Pager{current: 1, max: maxPages}
}

// Page returns the current page number, starting at 1
func (p *Pager) Page() int {
	return p.current
}

// Advance decides whether the next listing page should be fetched.
// It returns the next request and true only when the source reported
// a next page and the budget is not exhausted; otherwise the crawl of
// this seed query is over.
func (p *Pager) Advance(next *helpers.Request) (*helpers.Request, bool) {
	if next == nil || p.current >= p.max {
		return nil, false
	}
	p.current++
	return next, true
}
