package pagination

// Offset returns the number of rows to skip for a 1-based page.
func Offset(page, pageSize int) int {
	if page < 1 || pageSize < 1 {
		return 0
	}
	return (page - 1) * pageSize
}

// TotalPages returns how many pages total rows fill. An empty result still has one page.
func TotalPages(total, pageSize int) int {
	if total <= 0 || pageSize < 1 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

// Meta describes where a page sits within the full result set.
type Meta struct {
	Page       int  `json:"page"`
	PageSize   int  `json:"pageSize"`
	TotalCount int  `json:"totalCount"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// NewMeta builds the paging metadata of one page.
func NewMeta(page, pageSize, total int) Meta {
	pages := TotalPages(total, pageSize)
	return Meta{
		Page:       page,
		PageSize:   pageSize,
		TotalCount: total,
		TotalPages: pages,
		HasNext:    page < pages,
		HasPrev:    page > 1,
	}
}
