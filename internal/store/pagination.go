package store

import "github.com/Juan-Fuente-T/borme-scraper-frontend/internal/model"

// PaginationState tracks the paging cursor of the latest list response
type PaginationState struct {
	CurrentPage   int
	TotalPages    int
	TotalElements int
	PageSize      int
}

// HasNext reports whether a page follows CurrentPage
func (s PaginationState) HasNext() bool {
	return s.CurrentPage < s.TotalPages-1
}

// HasPrev reports whether a page precedes CurrentPage
func (s PaginationState) HasPrev() bool {
	return s.CurrentPage > 0
}

// Pagination is an observable PaginationState with navigation helpers
type Pagination struct {
	*Store[PaginationState]
	initialPageSize int
}

// NewPagination creates a pagination store at page 0. A non-positive
// pageSize falls back to model.DefaultPageSize.
func NewPagination(pageSize int) *Pagination {
	if pageSize <= 0 {
		pageSize = model.DefaultPageSize
	}
	return &Pagination{
		Store:           New(initialState(pageSize)),
		initialPageSize: pageSize,
	}
}

func initialState(pageSize int) PaginationState {
	return PaginationState{PageSize: pageSize}
}

// PageSize returns the current page size
func (p *Pagination) PageSize() int {
	return p.Get().PageSize
}

// UpdateFromResponse copies the cursor of a paging envelope.
// PageSize is left untouched.
func (p *Pagination) UpdateFromResponse(cursor model.PageCursor) {
	p.Update(func(s PaginationState) PaginationState {
		s.CurrentPage = cursor.CurrentPage
		s.TotalPages = cursor.TotalPages
		s.TotalElements = cursor.Total
		return s
	})
}

// NextPage calls fn with the following page number if there is one.
// The cursor itself only moves on the next UpdateFromResponse.
func (p *Pagination) NextPage(fn func(page int)) {
	s := p.Get()
	if s.HasNext() {
		fn(s.CurrentPage + 1)
	}
}

// PrevPage calls fn with the preceding page number if there is one.
// The cursor itself only moves on the next UpdateFromResponse.
func (p *Pagination) PrevPage(fn func(page int)) {
	s := p.Get()
	if s.HasPrev() {
		fn(s.CurrentPage - 1)
	}
}

// RequestNextPage moves the cursor forward and returns the new page in one
// step, so the stored page matches the page being fetched.
func (p *Pagination) RequestNextPage() (int, bool) {
	return p.step(1)
}

// RequestPrevPage moves the cursor back and returns the new page in one step.
func (p *Pagination) RequestPrevPage() (int, bool) {
	return p.step(-1)
}

func (p *Pagination) step(delta int) (int, bool) {
	var (
		page  int
		moved bool
	)
	p.Update(func(s PaginationState) PaginationState {
		if (delta > 0 && s.HasNext()) || (delta < 0 && s.HasPrev()) {
			s.CurrentPage += delta
			moved = true
		}
		page = s.CurrentPage
		return s
	})
	return page, moved
}

// Restore moves the cursor back to from if it still sits on page. It undoes
// a RequestNextPage or RequestPrevPage whose fetch failed.
func (p *Pagination) Restore(page, from int) {
	p.Update(func(s PaginationState) PaginationState {
		if s.CurrentPage == page {
			s.CurrentPage = from
		}
		return s
	})
}

// Reset restores page 0, zero totals and the initial page size
func (p *Pagination) Reset() {
	p.Set(initialState(p.initialPageSize))
}
