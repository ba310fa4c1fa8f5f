// internal/app/features/pestalerts/export.go
package pestalerts

import (
	"net/http"
	"time"

	"github.com/agrihub/agrihub/internal/app/features/errors"
	"github.com/agrihub/agrihub/internal/app/system/export"
	"github.com/agrihub/agrihub/internal/app/system/tabular"
	"github.com/agrihub/agrihub/internal/app/system/timeouts"
	"github.com/agrihub/agrihub/internal/domain/models"
)

var exportColumns = []string{"pest", "crop", "location", "severity", "status", "created_at"}

func exportRows(rows []models.PestAlert) [][]string {
	out := make([][]string, 0, len(rows))
	for _, a := range rows {
		out = append(out, []string{
			a.Pest,
			a.Crop,
			a.Location,
			a.Severity,
			a.Status,
			a.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return out
}

// ServeExportCSV handles GET /pest-alerts/export/csv.
func (h *Handler) ServeExportCSV(w http.ResponseWriter, r *http.Request) {
	_, farmerID, ok := currentFarmer(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "pest alert export csv")
	defer cancel()

	rows, err := h.Alerts.ListByFarmer(ctx, farmerID)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "pest alerts")
		return
	}
	filtered := tabular.Apply(rows, tabular.ParseFilter(r), selector)
	export.ServeCSV(w, h.Log, "pest-alerts", exportColumns, exportRows(filtered))
}

// ServeExportPDF handles GET /pest-alerts/export/pdf.
func (h *Handler) ServeExportPDF(w http.ResponseWriter, r *http.Request) {
	_, farmerID, ok := currentFarmer(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "pest alert export pdf")
	defer cancel()

	rows, err := h.Alerts.ListByFarmer(ctx, farmerID)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "pest alerts")
		return
	}
	filtered := tabular.Apply(rows, tabular.ParseFilter(r), selector)
	export.ServePDF(w, h.Log, "pest-alerts", "Pest Alert Report", exportColumns, exportRows(filtered))
}

// ServeTriageExportCSV handles GET /triage/pest-alerts/export/csv.
func (h *Handler) ServeTriageExportCSV(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "pest alert triage export csv")
	defer cancel()

	rows, err := h.Alerts.ListAll(ctx)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "pest alerts")
		return
	}
	filtered := tabular.Apply(rows, tabular.ParseFilter(r), selector)
	export.ServeCSV(w, h.Log, "pest-alerts", exportColumns, exportRows(filtered))
}

// ServeTriageExportPDF handles GET /triage/pest-alerts/export/pdf.
func (h *Handler) ServeTriageExportPDF(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "pest alert triage export pdf")
	defer cancel()

	rows, err := h.Alerts.ListAll(ctx)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "pest alerts")
		return
	}
	filtered := tabular.Apply(rows, tabular.ParseFilter(r), selector)
	export.ServePDF(w, h.Log, "pest-alerts", "Pest Alert Report", exportColumns, exportRows(filtered))
}
