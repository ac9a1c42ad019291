package store

// PageParams contains offset-based pagination request parameters.
type PageParams struct {
	Page  int // 1-based page number (defaults to 1)
	Limit int // Items per page (defaults to 20 with a maximum of 100)
}

// PageResult contains one page of data and pagination metadata.
type PageResult[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// DefaultPageParams returns sensible defaults.
func DefaultPageParams() PageParams {
	return PageParams{Page: 1, Limit: 20}
}

// Validate checks and corrects pagination parameters.
func (p *PageParams) Validate() {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
}

// Offset returns the number of items to skip for this page.
func (p PageParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// NewPageResult assembles a page from pre-sliced items and total count.
func NewPageResult[T any](items []T, params PageParams, total int) PageResult[T] {
	totalPages := 0
	if total > 0 {
		totalPages = (total + params.Limit - 1) / params.Limit
	}
	return PageResult[T]{
		Items:      items,
		Page:       params.Page,
		Limit:      params.Limit,
		Total:      total,
		TotalPages: totalPages,
	}
}
