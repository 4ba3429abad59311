// Package pagination provides pagination utilities.
package pagination

// DefaultLimit and MaxLimit bound page sizes for list endpoints.
const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// Pagination holds offset/limit pagination parameters.
type Pagination struct {
	Offset int
	Limit  int
}

// New creates a new Pagination with defaults and caps applied.
func New(offset, limit int) Pagination {
	if offset < 0 {
		offset = 0
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Pagination{
		Offset: offset,
		Limit:  limit,
	}
}

// Result represents a paginated result set.
type Result[T any] struct {
	Data   []T   `json:"data"`
	Total  int64 `json:"total"`
	Offset int   `json:"offset"`
	Limit  int   `json:"limit"`
}

// NewResult creates a new paginated Result.
func NewResult[T any](data []T, total int64, p Pagination) Result[T] {
	if data == nil {
		data = make([]T, 0)
	}

	return Result[T]{
		Data:   data,
		Total:  total,
		Offset: p.Offset,
		Limit:  p.Limit,
	}
}
