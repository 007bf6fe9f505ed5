// Package pagination pages in-memory result lists by limit and offset.
package pagination

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params holds the requested window.
type Params struct {
	Limit  int
	Offset int
}

// New normalizes a requested window: a non-positive limit becomes
// DefaultLimit, limits above MaxLimit are capped and a negative offset
// becomes 0.
func New(limit, offset int) Params {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return Params{Limit: limit, Offset: offset}
}

// Page is one window of a list.
type Page[T any] struct {
	Items   []T  `json:"items"`
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
}

// Slice returns the window of items selected by p.
func Slice[T any](items []T, p Params) Page[T] {
	total := len(items)
	start := min(max(p.Offset, 0), total)
	end := min(start+max(p.Limit, 0), total)
	return Page[T]{
		Items:   items[start:end:end],
		Total:   total,
		Limit:   p.Limit,
		Offset:  p.Offset,
		HasMore: p.HasNext(total),
	}
}

// HasNext returns true if there are more results after the current page.
func (p Params) HasNext(total int) bool {
	return p.Offset+p.Limit < total
}

// HasPrevious returns true if there are results before the current page.
func (p Params) HasPrevious() bool {
	return p.Offset > 0
}

// NextOffset returns the offset for the next page.
func (p Params) NextOffset() int {
	return p.Offset + p.Limit
}

// PreviousOffset returns the offset for the previous page.
// Returns 0 if the result would be negative.
func (p Params) PreviousOffset() int {
	prev := p.Offset - p.Limit
	if prev < 0 {
		return 0
	}
	return prev
}
