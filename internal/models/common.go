// server/internal/models/common.go
package models

// Page is the paginated envelope used by the requisition search endpoint.
// Pagination is flat: everything lands on page 0.
type Page[T any] struct {
	Content       []T `json:"content"`
	TotalElements int `json:"totalElements"`
	TotalPages    int `json:"totalPages"`
	Size          int `json:"size"`
	Number        int `json:"number"`
}

// Collection is the envelope used by every other list endpoint.
type Collection[T any] struct {
	Content       []T `json:"content"`
	TotalElements int `json:"totalElements"`
}

// NewPage wraps items into a single page.
func NewPage[T any](items []T) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Content:       items,
		TotalElements: len(items),
		TotalPages:    1,
		Size:          len(items),
		Number:        0,
	}
}

func NewCollection[T any](items []T) Collection[T] {
	if items == nil {
		items = []T{}
	}
	return Collection[T]{Content: items, TotalElements: len(items)}
}

// Ref is a {"id": ...} pointer to another entity.
type Ref struct {
	ID string `json:"id"`
}
