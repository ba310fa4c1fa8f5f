// internal/app/features/harvests/export.go
package harvests

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

var exportColumns = []string{"crop", "season", "quantity_kg", "quality", "status", "created_at"}

func exportRows(rows []models.Harvest) [][]string {
	out := make([][]string, 0, len(rows))
	for _, h := range rows {
		out = append(out, []string{
			h.Crop,
			h.Season,
			strconv.FormatFloat(h.QuantityKg, 'f', 1, 64),
			h.Quality,
			h.Status,
			h.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return out
}

// ServeExportCSV handles GET /harvests/export/csv.
func (h *Handler) ServeExportCSV(w http.ResponseWriter, r *http.Request) {
	_, farmerID, ok := currentFarmer(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "harvest export csv")
	defer cancel()

	rows, err := h.Harvests.ListByFarmer(ctx, farmerID)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "harvests")
		return
	}
	filtered := tabular.Apply(rows, tabular.ParseFilter(r), selector)
	export.ServeCSV(w, h.Log, "harvests", exportColumns, exportRows(filtered))
}

// ServeExportPDF handles GET /harvests/export/pdf.
func (h *Handler) ServeExportPDF(w http.ResponseWriter, r *http.Request) {
	_, farmerID, ok := currentFarmer(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "harvest export pdf")
	defer cancel()

	rows, err := h.Harvests.ListByFarmer(ctx, farmerID)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "harvests")
		return
	}
	filtered := tabular.Apply(rows, tabular.ParseFilter(r), selector)
	export.ServePDF(w, h.Log, "harvests", "Harvest Report", exportColumns, exportRows(filtered))
}
