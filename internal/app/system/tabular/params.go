// internal/app/system/tabular/params.go
package tabular

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// DefaultPageSize is the number of rows shown in list responses unless the
// caller asks for a different per_page.
const DefaultPageSize = 25

// MaxPageSize caps per_page so a client cannot request the whole collection
// in one page.
const MaxPageSize = 200

// ParseFilter extracts the search and status query parameters.
func ParseFilter(r *http.Request) FilterState {
	return FilterState{
		Search: query.Get(r, "search"),
		Status: query.Get(r, "status"),
	}
}

// ParsePage extracts page/per_page query parameters, falling back to page 1
// and the given default size on anything missing or invalid.
func ParsePage(r *http.Request, defaultSize int) PageState {
	if defaultSize < 1 {
		defaultSize = DefaultPageSize
	}
	p := PageState{Number: 1, Size: defaultSize}
	if s := query.Get(r, "page"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n >= 1 {
			p.Number = n
		}
	}
	if s := query.Get(r, "per_page"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n >= 1 {
			p.Size = n
			if p.Size > MaxPageSize {
				p.Size = MaxPageSize
			}
		}
	}
	return p
}
