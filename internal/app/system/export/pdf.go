// internal/app/system/export/pdf.go
package export

import (
	"io"
	"time"

	"github.com/go-pdf/fpdf"
)

// WritePDF renders a tabular report: a title line, a generated-on subtitle,
// and a table whose header and body mirror the CSV columns. Column widths
// are sized proportionally to content, and long cells are truncated with an
// ellipsis rather than overflowing.
func WritePDF(w io.Writer, title string, cols []string, rows [][]string) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 9, title, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(110, 110, 110)
	pdf.CellFormat(0, 6, "Generated on "+time.Now().UTC().Format("2 Jan 2006"), "", 1, "L", false, 0, "")
	pdf.Ln(3)
	pdf.SetTextColor(0, 0, 0)

	widths := columnWidths(pdf, cols, rows)

	// Header row
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 236, 228)
	for i, c := range cols {
		pdf.CellFormat(widths[i], 7, truncate(pdf, c, widths[i]), "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	// Body rows with light striping
	pdf.SetFont("Helvetica", "", 9)
	for n, row := range rows {
		fill := n%2 == 1
		pdf.SetFillColor(246, 248, 245)
		for i := range cols {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			pdf.CellFormat(widths[i], 6, truncate(pdf, cell, widths[i]), "1", 0, "L", fill, 0, "")
		}
		pdf.Ln(-1)
	}

	return pdf.Output(w)
}

// columnWidths distributes the printable width proportionally to the widest
// entry in each column, with a floor so narrow columns stay legible.
func columnWidths(pdf *fpdf.Fpdf, cols []string, rows [][]string) []float64 {
	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	usable := pageW - left - right

	const minW = 14.0
	widths := make([]float64, len(cols))
	total := 0.0
	for i, c := range cols {
		w := pdf.GetStringWidth(c)
		for _, row := range rows {
			if i < len(row) {
				if cw := pdf.GetStringWidth(row[i]); cw > w {
					w = cw
				}
			}
		}
		w += 4 // cell padding
		if w < minW {
			w = minW
		}
		widths[i] = w
		total += w
	}
	if total <= 0 {
		return widths
	}
	scale := usable / total
	for i := range widths {
		widths[i] *= scale
		if widths[i] < minW {
			widths[i] = minW
		}
	}
	return widths
}

// The core fonts are cp1252, so the marker stays plain ASCII.
const ellipsis = "..."

func truncate(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width-2 {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && pdf.GetStringWidth(string(runes)+ellipsis) > width-2 {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + ellipsis
}
