package tabular

import (
	"net/http/httptest"
	"reflect"
	"testing"
)

type rec struct {
	ID     int
	Title  string
	Type   string
	Status string
}

var recSel = Selector[rec]{
	SearchFields: func(r rec) []string { return []string{r.Title, r.Type} },
	Status:       func(r rec) string { return r.Status },
}

func ids(rows []rec) []int {
	out := make([]int, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ID)
	}
	return out
}

func TestApply_StatusFilter(t *testing.T) {
	rows := []rec{
		{ID: 1, Status: "Pending"},
		{ID: 2, Status: "Resolved"},
		{ID: 3, Status: "Pending"},
	}

	got := Apply(rows, FilterState{Status: "Pending"}, recSel)
	if want := []int{1, 3}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("filtered ids: got %v, want %v", ids(got), want)
	}

	page, total := Paginate(got, PageState{Number: 1, Size: 2})
	if total != 1 {
		t.Errorf("totalPages: got %d, want 1", total)
	}
	if want := []int{1, 3}; !reflect.DeepEqual(ids(page), want) {
		t.Errorf("page 1: got %v, want %v", ids(page), want)
	}
}

func TestApply_AllSentinel(t *testing.T) {
	rows := []rec{
		{ID: 1, Status: "Pending"},
		{ID: 2, Status: "Resolved"},
		{ID: 3, Status: "Pending"},
	}

	for _, status := range []string{"All", "all", ""} {
		got := Apply(rows, FilterState{Status: status}, recSel)
		if len(got) != 3 {
			t.Errorf("status %q: got %d rows, want 3", status, len(got))
		}
	}

	// Page 2 of 3 with one item per page lands on the middle record.
	got := Apply(rows, FilterState{Status: "All"}, recSel)
	page, total := Paginate(got, PageState{Number: 2, Size: 1})
	if total != 3 {
		t.Errorf("totalPages: got %d, want 3", total)
	}
	if len(page) != 1 || page[0].ID != 2 {
		t.Errorf("page 2: got %v, want [{2}]", ids(page))
	}
}

func TestApply_TextSearch(t *testing.T) {
	maize := rec{ID: 1, Title: "Pest infestation in maize", Type: "Pest Attack"}
	goat := rec{ID: 2, Title: "Goat ate crops", Type: "Animal Damage"}

	got := Apply([]rec{maize, goat}, FilterState{Search: "maize"}, recSel)
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("search %q: got %v, want [1]", "maize", ids(got))
	}

	// Case-insensitive, and OR across fields (match on Type, not Title).
	got = Apply([]rec{maize, goat}, FilterState{Search: "animal"}, recSel)
	if len(got) != 1 || got[0].ID != 2 {
		t.Errorf("search %q: got %v, want [2]", "animal", ids(got))
	}

	// Empty search matches everything.
	got = Apply([]rec{maize, goat}, FilterState{Search: "  "}, recSel)
	if len(got) != 2 {
		t.Errorf("empty search: got %d rows, want 2", len(got))
	}
}

func TestApply_ANDSemantics(t *testing.T) {
	rows := []rec{
		{ID: 1, Title: "maize blight", Status: "Pending"},
		{ID: 2, Title: "maize rust", Status: "Resolved"},
		{ID: 3, Title: "bean rot", Status: "Pending"},
	}

	f := FilterState{Search: "maize", Status: "Pending"}
	got := Apply(rows, f, recSel)
	if want := []int{1}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("AND filter: got %v, want %v", ids(got), want)
	}

	// Every record in the result passes both predicates; every record that
	// passes both is in the result.
	for _, r := range rows {
		in := false
		for _, g := range got {
			if g.ID == r.ID {
				in = true
			}
		}
		want := Matches(r, FilterState{Search: "maize"}, recSel) &&
			Matches(r, FilterState{Status: "Pending"}, recSel)
		if in != want {
			t.Errorf("record %d: in result = %v, want %v", r.ID, in, want)
		}
	}
}

func TestApply_Idempotent(t *testing.T) {
	rows := []rec{
		{ID: 1, Title: "a", Status: "Open"},
		{ID: 2, Title: "b", Status: "Closed"},
		{ID: 3, Title: "ab", Status: "Open"},
	}
	f := FilterState{Search: "a", Status: "Open"}

	first := Apply(rows, f, recSel)
	second := Apply(rows, f, recSel)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Apply not idempotent: %v vs %v", ids(first), ids(second))
	}
	// Applying the filter to its own output is a fixed point.
	third := Apply(first, f, recSel)
	if !reflect.DeepEqual(first, third) {
		t.Errorf("Apply(Apply(x)) != Apply(x): %v vs %v", ids(first), ids(third))
	}
}

func TestApply_UnknownStatusMatchesNothing(t *testing.T) {
	rows := []rec{{ID: 1, Status: "Pending"}}
	got := Apply(rows, FilterState{Status: "NoSuchStatus"}, recSel)
	if len(got) != 0 {
		t.Errorf("unknown status: got %d rows, want 0", len(got))
	}
}

func TestPaginate_Coverage(t *testing.T) {
	var rows []rec
	for i := 1; i <= 11; i++ {
		rows = append(rows, rec{ID: i})
	}

	for _, size := range []int{1, 2, 4, 5, 11, 50} {
		_, total := Paginate(rows, PageState{Number: 1, Size: size})
		var joined []int
		for p := 1; p <= total; p++ {
			page, _ := Paginate(rows, PageState{Number: p, Size: size})
			joined = append(joined, ids(page)...)
		}
		if !reflect.DeepEqual(joined, ids(rows)) {
			t.Errorf("size %d: concatenated pages %v != input %v", size, joined, ids(rows))
		}
	}
}

func TestPaginate_EmptyList(t *testing.T) {
	page, total := Paginate([]rec(nil), PageState{Number: 1, Size: 5})
	if total != 1 {
		t.Errorf("totalPages of empty list: got %d, want 1", total)
	}
	if len(page) != 0 {
		t.Errorf("empty list page 1: got %d rows, want 0", len(page))
	}
}

func TestPaginate_ClampsOutOfRangePage(t *testing.T) {
	rows := []rec{{ID: 1}, {ID: 2}, {ID: 3}}

	// Page 3 of a broad list, then the filter narrows the set: the request
	// is clamped to the last page instead of rendering blank.
	page, total := Paginate(rows[:1], PageState{Number: 3, Size: 2})
	if total != 1 {
		t.Errorf("totalPages: got %d, want 1", total)
	}
	if want := []int{1}; !reflect.DeepEqual(ids(page), want) {
		t.Errorf("clamped page: got %v, want %v", ids(page), want)
	}

	// Page 0 and negative pages clamp to 1.
	page, _ = Paginate(rows, PageState{Number: 0, Size: 2})
	if want := []int{1, 2}; !reflect.DeepEqual(ids(page), want) {
		t.Errorf("page 0: got %v, want %v", ids(page), want)
	}
}

func TestDeleteThenPaginate(t *testing.T) {
	rows := []rec{
		{ID: 1, Status: "Pending"},
		{ID: 2, Status: "Resolved"},
		{ID: 3, Status: "Pending"},
	}

	// Delete id=2, then re-run the previous query's page 2 (size 1):
	// it now yields {id:3}, not the stale {id:2} and not an error.
	var after []rec
	for _, r := range rows {
		if r.ID != 2 {
			after = append(after, r)
		}
	}
	filtered := Apply(after, FilterState{Status: "All"}, recSel)
	page, total := Paginate(filtered, PageState{Number: 2, Size: 1})
	if total != 2 {
		t.Errorf("totalPages: got %d, want 2", total)
	}
	if len(page) != 1 || page[0].ID != 3 {
		t.Errorf("page 2 after delete: got %v, want [3]", ids(page))
	}
	for _, r := range filtered {
		if r.ID == 2 {
			t.Error("deleted record still present in filtered view")
		}
	}
}

func TestBuildList_ReportsRequestedPage(t *testing.T) {
	rows := []rec{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}, {ID: 5}}

	resp := BuildList(rows, FilterState{}, recSel, PageState{Number: 1, Size: 2})
	if resp.Page != 1 {
		t.Errorf("page 1 of 3: Page = %d, want 1", resp.Page)
	}
	if resp.TotalPages != 3 || resp.TotalRows != 5 {
		t.Errorf("totals: got %d pages / %d rows, want 3 / 5", resp.TotalPages, resp.TotalRows)
	}
	if want := []int{1, 2}; !reflect.DeepEqual(ids(resp.Rows), want) {
		t.Errorf("page 1 rows: got %v, want %v", ids(resp.Rows), want)
	}

	resp = BuildList(rows, FilterState{}, recSel, PageState{Number: 2, Size: 2})
	if resp.Page != 2 {
		t.Errorf("page 2 of 3: Page = %d, want 2", resp.Page)
	}
	if want := []int{3, 4}; !reflect.DeepEqual(ids(resp.Rows), want) {
		t.Errorf("page 2 rows: got %v, want %v", ids(resp.Rows), want)
	}

	// An out-of-range request reports the clamped page it actually served.
	resp = BuildList(rows, FilterState{}, recSel, PageState{Number: 9, Size: 2})
	if resp.Page != 3 {
		t.Errorf("clamped page: Page = %d, want 3", resp.Page)
	}
	if want := []int{5}; !reflect.DeepEqual(ids(resp.Rows), want) {
		t.Errorf("clamped rows: got %v, want %v", ids(resp.Rows), want)
	}
}

func TestParsePage(t *testing.T) {
	tests := []struct {
		url  string
		want PageState
	}{
		{"/x", PageState{Number: 1, Size: 25}},
		{"/x?page=3", PageState{Number: 3, Size: 25}},
		{"/x?page=3&per_page=5", PageState{Number: 3, Size: 5}},
		{"/x?page=0", PageState{Number: 1, Size: 25}},
		{"/x?page=junk&per_page=junk", PageState{Number: 1, Size: 25}},
		{"/x?per_page=100000", PageState{Number: 1, Size: MaxPageSize}},
	}
	for _, tt := range tests {
		r := httptest.NewRequest("GET", tt.url, nil)
		got := ParsePage(r, DefaultPageSize)
		if got != tt.want {
			t.Errorf("ParsePage(%q) = %+v, want %+v", tt.url, got, tt.want)
		}
	}
}

func TestParseFilter(t *testing.T) {
	r := httptest.NewRequest("GET", "/x?search=maize&status=Pending", nil)
	got := ParseFilter(r)
	if got.Search != "maize" || got.Status != "Pending" {
		t.Errorf("ParseFilter = %+v", got)
	}
}
