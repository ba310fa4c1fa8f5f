package tabular

// ListResponse is the JSON envelope every list endpoint returns: one page
// of filtered rows plus enough state for the client to draw pagination.
type ListResponse[T any] struct {
	Rows       []T         `json:"rows"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
	TotalRows  int         `json:"total_rows"`
	Filter     FilterState `json:"filter"`
}

// BuildList filters, paginates, and wraps rows for the wire. Rows is never
// nil so empty pages encode as [] rather than null.
func BuildList[T any](rows []T, f FilterState, sel Selector[T], p PageState) ListResponse[T] {
	filtered := Apply(rows, f, sel)
	pageRows, totalPages := Paginate(filtered, p)
	if pageRows == nil {
		pageRows = []T{}
	}
	return ListResponse[T]{
		Rows:       pageRows,
		Page:       clampPage(p.Number, totalPages),
		PageSize:   p.Size,
		TotalPages: totalPages,
		TotalRows:  len(filtered),
		Filter:     f,
	}
}
