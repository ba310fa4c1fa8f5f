package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/go-pdf/fpdf"
)

func TestWriteCSV_RoundTripsAwkwardFields(t *testing.T) {
	cols := []string{"title", "location", "status"}
	rows := [][]string{
		{"Pest, maize", "Plot \"A\"", "Pending"},
		{"Line\nbreak", "North", "Resolved"},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, cols, rows); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	out := buf.Bytes()
	if !bytes.HasPrefix(out, []byte{0xEF, 0xBB, 0xBF}) {
		t.Error("expected UTF-8 BOM prefix")
	}

	cr := csv.NewReader(bytes.NewReader(out[3:]))
	records, err := cr.ReadAll()
	if err != nil {
		t.Fatalf("reading back CSV failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3 (header + 2 rows)", len(records))
	}
	if records[1][0] != "Pest, maize" {
		t.Errorf("comma field mangled: %q", records[1][0])
	}
	if records[1][1] != `Plot "A"` {
		t.Errorf("quote field mangled: %q", records[1][1])
	}
	if records[2][0] != "Line\nbreak" {
		t.Errorf("newline field mangled: %q", records[2][0])
	}
}

func TestWriteCSV_RowCountMatchesInput(t *testing.T) {
	cols := []string{"a"}
	rows := [][]string{{"1"}, {"2"}, {"3"}, {"4"}}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, cols, rows); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	cr := csv.NewReader(bytes.NewReader(buf.Bytes()[3:]))
	records, err := cr.ReadAll()
	if err != nil {
		t.Fatalf("reading back CSV failed: %v", err)
	}
	// Header plus every filtered record: export ignores pagination.
	if len(records) != len(rows)+1 {
		t.Errorf("got %d records, want %d", len(records), len(rows)+1)
	}
}

func TestSanitizeField(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"=SUM(A1)", "'=SUM(A1)"},
		{"+1234", "'+1234"},
		{"-5", "'-5"},
		{"@cmd", "'@cmd"},
		{"plain", "plain"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := SanitizeField(tt.in); got != tt.want {
			t.Errorf("SanitizeField(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWritePDF_ProducesDocument(t *testing.T) {
	cols := []string{"crop", "season", "quantity_kg"}
	rows := [][]string{
		{"Maize", "2026 long rains", "1250"},
		{"Beans", "2026 short rains", "310"},
	}

	var buf bytes.Buffer
	if err := WritePDF(&buf, "Harvest Report", cols, rows); err != nil {
		t.Fatalf("WritePDF failed: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Errorf("output does not start with %%PDF header")
	}
	if buf.Len() < 500 {
		t.Errorf("suspiciously small PDF: %d bytes", buf.Len())
	}
}

func TestTruncateStaysASCII(t *testing.T) {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 9)

	long := strings.Repeat("overflowing cell content ", 10)
	got := truncate(pdf, long, 20)
	if got == long {
		t.Fatal("expected the cell to be truncated")
	}
	if !strings.HasSuffix(got, ellipsis) {
		t.Errorf("truncated cell %q should end with %q", got, ellipsis)
	}
	// Core fonts are cp1252; anything outside ASCII renders as mojibake.
	for _, r := range got {
		if r > 127 {
			t.Errorf("truncated cell contains non-ASCII rune %q", r)
		}
	}

	if got := truncate(pdf, "short", 50); got != "short" {
		t.Errorf("fitting cell should pass through, got %q", got)
	}
}

func TestWritePDF_EmptyRows(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePDF(&buf, "Empty Report", []string{"a", "b"}, nil); err != nil {
		t.Fatalf("WritePDF with no rows failed: %v", err)
	}
}

func TestFilename(t *testing.T) {
	name := Filename("complaints", "csv")
	if !strings.HasPrefix(name, "complaints_") || !strings.HasSuffix(name, ".csv") {
		t.Errorf("unexpected filename %q", name)
	}
}
