package models

// Query drives every paginated list endpoint. Page is 1-based; changing
// Filters or Search implies resetting Page to 1 (the list controller owns
// that rule).
type Query struct {
	Page    int
	Limit   int
	Search  string
	Filters map[string]string
}

// Page is one page of a paginated listing. Items preserve server order.
type Page[T any] struct {
	Items      []T
	Page       int
	Total      int
	TotalPages int
}

// HasMore reports whether pages beyond the current one exist.
func (p Page[T]) HasMore() bool {
	return p.Page < p.TotalPages
}
