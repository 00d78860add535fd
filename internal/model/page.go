package model

const (
	DefaultPageSize = 20

	DefaultCompanySort     = "startDate,desc"
	DefaultPublicationSort = "publicationDate,desc"
)

// Page is the paging envelope returned by the list endpoints
type Page[T any] struct {
	Content     []T `json:"content"`
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
	Total       int `json:"total"`
}

// Cursor returns the paging fields of the envelope without its items
func (p *Page[T]) Cursor() PageCursor {
	return PageCursor{
		CurrentPage: p.CurrentPage,
		TotalPages:  p.TotalPages,
		Total:       p.Total,
	}
}

// PageCursor carries the paging fields of an envelope
type PageCursor struct {
	CurrentPage int
	TotalPages  int
	Total       int
}

// ListOptions selects a page of a listing. A zero Size falls back to
// DefaultPageSize and an empty Sort to the endpoint's default ordering.
type ListOptions struct {
	Page int
	Size int
	Sort string // "field,direction"
}

// WithDefaults fills unset fields
func (o ListOptions) WithDefaults(sort string) ListOptions {
	if o.Page < 0 {
		o.Page = 0
	}
	if o.Size <= 0 {
		o.Size = DefaultPageSize
	}
	if o.Sort == "" {
		o.Sort = sort
	}
	return o
}
