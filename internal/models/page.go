package models

const (
	// DefaultPageLimit is used when the caller does not pass a limit.
	DefaultPageLimit = 10
	// MaxPageLimit caps the page size.
	MaxPageLimit = 100
)

// SortOrder направление сортировки
type SortOrder string

const (
	SortAsc  SortOrder = "ASC"
	SortDesc SortOrder = "DESC"
)

// PageQuery describes a page of a user listing.
type PageQuery struct {
	SortBy    string    // created_at | email
	SortOrder SortOrder // ASC | DESC
	Page      int       // 1-based
	Limit     int
}

// Normalize clamps the query to supported values.
func (q PageQuery) Normalize() PageQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultPageLimit
	}
	if q.Limit > MaxPageLimit {
		q.Limit = MaxPageLimit
	}
	switch q.SortBy {
	case "created_at", "email":
	default:
		q.SortBy = "created_at"
	}
	if q.SortOrder != SortAsc {
		q.SortOrder = SortDesc
	}
	return q
}

// Offset returns the number of rows to skip.
func (q PageQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// PageMeta описывает метаданные страницы
type PageMeta struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// NewPageMeta computes page metadata for a normalized query and a total count.
func NewPageMeta(q PageQuery, total int) PageMeta {
	pages := 0
	if q.Limit > 0 {
		pages = (total + q.Limit - 1) / q.Limit
	}
	return PageMeta{
		Page:       q.Page,
		Limit:      q.Limit,
		Total:      total,
		TotalPages: pages,
		HasNext:    q.Page < pages,
		HasPrev:    q.Page > 1,
	}
}

// Page is a slice of items with its metadata.
type Page[T any] struct {
	Items []T      `json:"items"`
	Meta  PageMeta `json:"meta"`
}
