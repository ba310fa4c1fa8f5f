// internal/app/system/export/csv.go
package export

import (
	"encoding/csv"
	"io"
)

// WriteCSV writes a header row followed by one row per record. Fields are
// quoted per RFC 4180 by encoding/csv, so embedded commas, quotes, and
// newlines survive a round trip. Output starts with a UTF-8 BOM and uses
// CRLF line endings for Excel.
func WriteCSV(w io.Writer, cols []string, rows [][]string) error {
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	cw.UseCRLF = true

	if err := cw.Write(cols); err != nil {
		return err
	}
	for _, row := range rows {
		out := make([]string, len(row))
		for i, field := range row {
			out[i] = SanitizeField(field)
		}
		if err := cw.Write(out); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// SanitizeField prevents CSV formula injection when the file is opened in a
// spreadsheet: a leading = + - or @ gets a quote prefix.
func SanitizeField(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@':
		return "'" + s
	}
	return s
}
