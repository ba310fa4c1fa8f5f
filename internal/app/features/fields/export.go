// internal/app/features/fields/export.go
package fields

import (
	"net/http"
	"strconv"
	"time"

	"github.com/agrihub/agrihub/internal/app/features/errors"
	"github.com/agrihub/agrihub/internal/app/system/export"
	"github.com/agrihub/agrihub/internal/app/system/tabular"
	"github.com/agrihub/agrihub/internal/app/system/timeouts"
	"github.com/agrihub/agrihub/internal/domain/models"
)

var exportColumns = []string{"name", "crop", "location", "area_hectares", "soil_type", "status", "created_at"}

func exportRows(rows []models.Field) [][]string {
	out := make([][]string, 0, len(rows))
	for _, f := range rows {
		out = append(out, []string{
			f.Name,
			f.Crop,
			f.Location,
			strconv.FormatFloat(f.AreaHectares, 'f', 2, 64),
			f.SoilType,
			f.Status,
			f.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return out
}

// ServeExportCSV handles GET /fields/export/csv.
func (h *Handler) ServeExportCSV(w http.ResponseWriter, r *http.Request) {
	_, farmerID, ok := currentFarmer(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "field export csv")
	defer cancel()

	rows, err := h.Fields.ListByFarmer(ctx, farmerID)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "fields")
		return
	}
	filtered := tabular.Apply(rows, tabular.ParseFilter(r), selector)
	export.ServeCSV(w, h.Log, "fields", exportColumns, exportRows(filtered))
}

// ServeExportPDF handles GET /fields/export/pdf.
func (h *Handler) ServeExportPDF(w http.ResponseWriter, r *http.Request) {
	_, farmerID, ok := currentFarmer(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "field export pdf")
	defer cancel()

	rows, err := h.Fields.ListByFarmer(ctx, farmerID)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "fields")
		return
	}
	filtered := tabular.Apply(rows, tabular.ParseFilter(r), selector)
	export.ServePDF(w, h.Log, "fields", "Field Report", exportColumns, exportRows(filtered))
}
