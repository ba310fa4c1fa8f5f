package normalize

import "testing"

// Email, Role, AuthMethod, and Status all fold to lower case and trim.
func TestFoldedFields(t *testing.T) {
	folded := []struct {
		name string
		fn   func(string) string
	}{
		{"Email", Email},
		{"Role", Role},
		{"AuthMethod", AuthMethod},
		{"Status", Status},
	}
	cases := []struct{ in, want string }{
		{"value", "value"},
		{"VALUE", "value"},
		{"  Mixed Case  ", "mixed case"},
		{"", ""},
		{"   ", ""},
	}
	for _, f := range folded {
		for _, tc := range cases {
			if got := f.fn(tc.in); got != tc.want {
				t.Errorf("%s(%q) = %q, want %q", f.name, tc.in, got, tc.want)
			}
		}
	}

	if got := Email("User@Example.ORG"); got != "user@example.org" {
		t.Errorf("Email domain fold: got %q", got)
	}
}

// Name and QueryParam trim but keep the caller's casing.
func TestCasePreservingFields(t *testing.T) {
	preserving := []struct {
		name string
		fn   func(string) string
	}{
		{"Name", Name},
		{"QueryParam", QueryParam},
	}
	for _, f := range preserving {
		if got := f.fn("  Amina WANJIKU  "); got != "Amina WANJIKU" {
			t.Errorf("%s: got %q, want trimmed original casing", f.name, got)
		}
		if got := f.fn("   "); got != "" {
			t.Errorf("%s: blank input should collapse to empty, got %q", f.name, got)
		}
	}
}

func TestRegionCollapsesInnerRuns(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Central", "Central"},
		{"  Rift  Valley  ", "Rift Valley"},
		{"Rift \t Valley", "Rift Valley"},
		{"", ""},
		{"   ", ""},
	}
	for _, tc := range cases {
		if got := Region(tc.in); got != tc.want {
			t.Errorf("Region(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
