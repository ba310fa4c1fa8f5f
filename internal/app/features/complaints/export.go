// internal/app/features/complaints/export.go
package complaints

import (
	"net/http"
	"time"

	"github.com/agrihub/agrihub/internal/app/features/errors"
	"github.com/agrihub/agrihub/internal/app/system/export"
	"github.com/agrihub/agrihub/internal/app/system/tabular"
	"github.com/agrihub/agrihub/internal/app/system/timeouts"
	"github.com/agrihub/agrihub/internal/domain/models"
)

var exportColumns = []string{"reference", "title", "type", "status", "location", "submitted_by", "created_at"}

func exportRows(rows []models.Complaint) [][]string {
	out := make([][]string, 0, len(rows))
	for _, c := range rows {
		out = append(out, []string{
			c.Reference,
			c.Title,
			c.Type,
			c.Status,
			c.Location,
			c.SubmittedBy,
			c.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return out
}

// ServeExportCSV handles GET /complaints/export/csv. Export covers the
// whole filtered set, ignoring pagination.
func (h *Handler) ServeExportCSV(w http.ResponseWriter, r *http.Request) {
	_, farmerID, ok := currentFarmer(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "complaint export csv")
	defer cancel()

	rows, err := h.Complaints.ListByFarmer(ctx, farmerID)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "complaints")
		return
	}
	filtered := tabular.Apply(rows, tabular.ParseFilter(r), selector)
	export.ServeCSV(w, h.Log, "complaints", exportColumns, exportRows(filtered))
}

// ServeExportPDF handles GET /complaints/export/pdf.
func (h *Handler) ServeExportPDF(w http.ResponseWriter, r *http.Request) {
	_, farmerID, ok := currentFarmer(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "complaint export pdf")
	defer cancel()

	rows, err := h.Complaints.ListByFarmer(ctx, farmerID)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "complaints")
		return
	}
	filtered := tabular.Apply(rows, tabular.ParseFilter(r), selector)
	export.ServePDF(w, h.Log, "complaints", "Complaint Report", exportColumns, exportRows(filtered))
}
