// internal/app/system/export/export.go

// Package export materializes a filtered record list as a downloadable CSV
// or PDF. Exporters are pure functions of (columns, rows) and never touch
// application state; callers pass the filtered, unpaginated set.
package export

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// Filename derives a download name like "complaints_20260115.csv".
func Filename(resource, ext string) string {
	return fmt.Sprintf("%s_%s.%s", resource, time.Now().UTC().Format("20060102"), ext)
}

// ServeCSV writes a CSV attachment response for the given rows.
func ServeCSV(w http.ResponseWriter, log *zap.Logger, resource string, cols []string, rows [][]string) {
	name := Filename(resource, "csv")
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, url.PathEscape(name)))

	if err := WriteCSV(w, cols, rows); err != nil {
		log.Error("CSV export failed", zap.String("resource", resource), zap.Error(err))
		return
	}
	log.Info("CSV exported", zap.String("resource", resource), zap.Int("rows", len(rows)))
}

// ServePDF writes a PDF attachment response for the given rows.
func ServePDF(w http.ResponseWriter, log *zap.Logger, resource, title string, cols []string, rows [][]string) {
	name := Filename(resource, "pdf")
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, url.PathEscape(name)))

	if err := WritePDF(w, title, cols, rows); err != nil {
		log.Error("PDF export failed", zap.String("resource", resource), zap.Error(err))
		return
	}
	log.Info("PDF exported", zap.String("resource", resource), zap.Int("rows", len(rows)))
}
