package pagination

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Request is a normalized page request; Page is 1-based.
type Request struct {
	Page  int
	Limit int
}

// Normalize applies defaults to invalid input. The page is never clamped to
// the last page, so a page past the end yields an empty slice.
func Normalize(page, limit, defaultLimit int) Request {
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Request{Page: page, Limit: limit}
}

func (r Request) Offset() int {
	return (r.Page - 1) * r.Limit
}

// Meta is the pagination block of every list response.
type Meta struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
	ItemsPerPage int   `json:"itemsPerPage"`
}

func NewMeta(r Request, total int64) Meta {
	return Meta{
		CurrentPage:  r.Page,
		TotalPages:   TotalPages(total, r.Limit),
		TotalItems:   total,
		ItemsPerPage: r.Limit,
	}
}

// TotalPages is ceil(total/limit); zero items means zero pages.
func TotalPages(total int64, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// Page pairs a slice of items with its metadata.
type Page[T any] struct {
	Items []T
	Meta  Meta
}
