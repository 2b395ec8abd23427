package utils

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PaginationParams holds pagination request parameters
type PaginationParams struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

// PaginationMeta holds pagination response metadata
type PaginationMeta struct {
	Page    int  `json:"page"`
	Limit   int  `json:"limit"`
	HasMore bool `json:"has_more"`
}

// GetPaginationParams normalises page and limit. Page defaults to 1, limit to
// DefaultPageSize and is capped at MaxPageSize.
func GetPaginationParams(page, limit int) PaginationParams {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return PaginationParams{
		Page:  page,
		Limit: limit,
	}
}

// CalculateOffset returns the SQL offset
func (p PaginationParams) CalculateOffset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// CalculateMeta generates pagination metadata from the number of rows returned
func CalculateMeta(returned int, p PaginationParams) PaginationMeta {
	return PaginationMeta{
		Page:    p.Page,
		Limit:   p.Limit,
		HasMore: p.Limit > 0 && returned == p.Limit,
	}
}
