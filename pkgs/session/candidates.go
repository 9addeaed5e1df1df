// Candidate paging: a cursor over fixed-size pages of the ranked
// candidate list.
package session

import "github.com/gohanzi/ime/pkgs/decoder"

// DefaultPageSize is the number of candidates shown per page when a
// Session isn't configured with an explicit size.
const DefaultPageSize = 9

// CandidateList holds a ranked candidate set with a cursor into pages
// of PageSize items.
type CandidateList struct {
	items    []decoder.Candidate
	page     int
	pageSize int
}

// NewCandidateList builds a CandidateList over items with the given page
// size. A non-positive size falls back to DefaultPageSize.
func NewCandidateList(items []decoder.Candidate, pageSize int) CandidateList {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return CandidateList{items: items, pageSize: pageSize}
}

// Page returns the candidates on the current page.
func (c *CandidateList) Page() []decoder.Candidate {
	if c.pageSize <= 0 {
		return c.items
	}
	start := c.page * c.pageSize
	if start >= len(c.items) {
		return nil
	}
	end := start + c.pageSize
	if end > len(c.items) {
		end = len(c.items)
	}
	return c.items[start:end]
}

// PageCount returns the total number of pages, at least 1.
func (c *CandidateList) PageCount() int {
	size := c.pageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	n := (len(c.items) + size - 1) / size
	if n == 0 {
		n = 1
	}
	return n
}

// NextPage advances the cursor one page, clamped to the last page.
func (c *CandidateList) NextPage() {
	if c.page < c.PageCount()-1 {
		c.page++
	}
}

// PrevPage retreats the cursor one page, clamped to the first page.
func (c *CandidateList) PrevPage() {
	if c.page > 0 {
		c.page--
	}
}

// PageIndex returns the current zero-based page index.
func (c *CandidateList) PageIndex() int { return c.page }

// At returns the candidate at zero-based index idx within the current
// page, used to resolve a digit keystroke to a selection.
func (c *CandidateList) At(idx int) (decoder.Candidate, bool) {
	page := c.Page()
	if idx < 0 || idx >= len(page) {
		return decoder.Candidate{}, false
	}
	return page[idx], true
}

// All returns every candidate across all pages.
func (c *CandidateList) All() []decoder.Candidate { return c.items }
