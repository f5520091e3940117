package services

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// Page is a 1-based page request.
type Page struct {
	Number int64
	Limit  int64
}

// NewPage clamps a page request to sane bounds.
func NewPage(number, limit int64) Page {
	if number < 1 {
		number = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return Page{Number: number, Limit: limit}
}

func (p Page) Skip() int64 {
	return (p.Number - 1) * p.Limit
}

// PageResult is the envelope of every paginated listing.
type PageResult[T any] struct {
	Data       []T   `json:"data"`
	Total      int64 `json:"total"`
	Page       int64 `json:"page"`
	TotalPages int64 `json:"totalPages"`
}

func newPageResult[T any](data []T, total int64, p Page) PageResult[T] {
	if data == nil {
		data = []T{}
	}
	return PageResult[T]{
		Data:       data,
		Total:      total,
		Page:       p.Number,
		TotalPages: totalPages(total, p.Limit),
	}
}

func totalPages(total, limit int64) int64 {
	if total == 0 || limit == 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

func uniq[T comparable](in []T) []T {
	seen := make(map[T]struct{}, len(in))
	out := make([]T, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
