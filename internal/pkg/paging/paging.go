// Package paging slices in-memory result sets into pages.
package paging

// DefaultPerPage applies when a caller passes a page size below 1.
const DefaultPerPage = 10

// MaxPerPage bounds caller-chosen page sizes.
const MaxPerPage = 100

// Page is one slice of a larger result set. Data is never nil.
type Page[T any] struct {
	MaxPage    int `json:"max_page"`
	ActualPage int `json:"actual_page"`
	PerPage    int `json:"per_page"`
	Total      int `json:"total"`
	Data       []T `json:"data"`
}

// Paginate returns the requested page of items. perPage < 1 uses DefaultPerPage and is
// capped at MaxPerPage; page < 1 becomes 1 and a page past the end is clamped to the last one.
func Paginate[T any](items []T, page, perPage int) Page[T] {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	total := len(items)
	maxPage := (total + perPage - 1) / perPage
	if maxPage < 1 {
		maxPage = 1
	}
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}
	start := (page - 1) * perPage
	end := start + perPage
	if end > total {
		end = total
	}
	data := make([]T, 0, end-start)
	data = append(data, items[start:end]...)
	return Page[T]{
		MaxPage:    maxPage,
		ActualPage: page,
		PerPage:    perPage,
		Total:      total,
		Data:       data,
	}
}
