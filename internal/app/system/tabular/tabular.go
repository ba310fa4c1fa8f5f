// internal/app/system/tabular/tabular.go

// Package tabular is the shared engine behind every list screen: free-text
// search plus status filtering, page slicing, and the row-level action
// state. Each resource instantiates it with its own selectors instead of
// re-implementing the algorithm per page.
package tabular

import "strings"

// StatusAll is the sentinel that disables the status dimension. Both "All"
// and "all" are accepted.
const StatusAll = "All"

// FilterState combines the free-text search and the status-equality filter
// applied before pagination.
type FilterState struct {
	Search string
	Status string
}

// AllStatuses reports whether the status dimension is bypassed.
func (f FilterState) AllStatuses() bool {
	return f.Status == "" || strings.EqualFold(f.Status, StatusAll)
}

// Selector tells the engine where to look inside a record of type T.
// SearchFields returns the stringifiable fields the text search runs over;
// Status returns the record's status value. Either may be nil, which
// disables that dimension for the resource.
type Selector[T any] struct {
	SearchFields func(T) []string
	Status       func(T) string
}

// Matches reports whether a single record passes the filter. The text
// search is a case-insensitive substring match with OR semantics across the
// search fields; the status filter is an exact, case-sensitive match.
// The two dimensions combine with AND.
func Matches[T any](rec T, f FilterState, sel Selector[T]) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" && sel.SearchFields != nil {
		hit := false
		for _, field := range sel.SearchFields(rec) {
			if strings.Contains(strings.ToLower(field), q) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	if !f.AllStatuses() && sel.Status != nil {
		if sel.Status(rec) != f.Status {
			return false
		}
	}
	return true
}

// Apply returns the records matching the filter, preserving input order.
// It is a pure function: the same list and filter always yield the same
// result, and the input slice is never modified.
func Apply[T any](rows []T, f FilterState, sel Selector[T]) []T {
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		if Matches(r, f, sel) {
			out = append(out, r)
		}
	}
	return out
}

// PageState is 1-based page selection over a filtered list.
type PageState struct {
	Number int // requested page, clamped by Paginate
	Size   int // items per page
}

// TotalPages returns max(1, ceil(n/size)). An empty list has one (empty)
// page rather than zero.
func TotalPages(n, size int) int {
	if size < 1 {
		size = 1
	}
	pages := (n + size - 1) / size
	if pages < 1 {
		pages = 1
	}
	return pages
}

// clampPage clamps a 1-based page number into [1, totalPages].
func clampPage(n, totalPages int) int {
	if n < 1 {
		return 1
	}
	if n > totalPages {
		return totalPages
	}
	return n
}

// Paginate slices one page out of the filtered list and returns the slice
// plus the total page count. The page number is clamped to [1, TotalPages],
// so narrowing a filter can never strand a caller on a blank page past the
// end. Concatenating pages 1..TotalPages reproduces the input exactly.
func Paginate[T any](rows []T, p PageState) ([]T, int) {
	if p.Size < 1 {
		p.Size = 1
	}
	total := TotalPages(len(rows), p.Size)
	page := clampPage(p.Number, total)
	lo := (page - 1) * p.Size
	hi := lo + p.Size
	if lo > len(rows) {
		lo = len(rows)
	}
	if hi > len(rows) {
		hi = len(rows)
	}
	return rows[lo:hi], total
}
