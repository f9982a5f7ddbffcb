package tools

// Pagination defaults for listings paged on the server side.
const (
	DefaultPage     = 0
	DefaultPageSize = 50
)

// PageInfo describes one page of a listing held in memory.
type PageInfo struct {
	Page     int  `json:"page"`
	PageSize int  `json:"page_size"`
	Total    int  `json:"total"`
	HasNext  bool `json:"has_next"`
}

// NewPageInfo describes page of a listing of total items.
func NewPageInfo(page, pageSize, total int) PageInfo {
	return PageInfo{
		Page:     page,
		PageSize: pageSize,
		Total:    total,
		HasNext:  hasNextPage(page, pageSize, total),
	}
}

// hasNextPage reports (page+1)*pageSize < total without overflowing.
func hasNextPage(page, pageSize, total int) bool {
	if page < 0 || pageSize <= 0 || total <= 0 {
		return false
	}
	return page < (total-1)/pageSize
}

// CursorInfo describes one page of a cursor-paginated upstream search.
type CursorInfo struct {
	Count    int  `json:"count"`
	PageSize int  `json:"page_size"`
	HasMore  bool `json:"has_more"`
}

// NewCursorInfo describes a page of count items; hasMore reports whether the
// upstream returned a next cursor.
func NewCursorInfo(count, pageSize int, hasMore bool) CursorInfo {
	return CursorInfo{Count: count, PageSize: pageSize, HasMore: hasMore}
}

// Pagination returns the "page" and "page_size" arguments.
func (a Args) Pagination() (page, pageSize int) {
	return a.Count("page", DefaultPage), a.Count("page_size", DefaultPageSize)
}

// Paginate returns the items of the given zero-based page. A page past the
// end is empty.
func Paginate[T any](items []T, page, pageSize int) []T {
	if page < 0 || pageSize <= 0 || page > len(items)/pageSize {
		return items[:0:0]
	}
	start := page * pageSize
	if start >= len(items) {
		return items[:0:0]
	}
	end := min(start+pageSize, len(items))
	return items[start:end]
}

// FormatList shapes a listing result. Nil pagination or meta are omitted.
func FormatList(data, pagination, meta any) map[string]any {
	out := map[string]any{"data": data}
	if pagination != nil {
		out["pagination"] = pagination
	}
	if meta != nil {
		out["meta"] = meta
	}
	return out
}

// FormatDetail shapes a single-resource result.
func FormatDetail(data any) map[string]any {
	return map[string]any{"data": data}
}

func nonEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
