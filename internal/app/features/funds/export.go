// internal/app/features/funds/export.go
package funds

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

var exportColumns = []string{"name", "kind", "amount_cents", "status", "created_at"}

func exportRows(rows []models.Fund) [][]string {
	out := make([][]string, 0, len(rows))
	for _, f := range rows {
		out = append(out, []string{
			f.Name,
			f.Kind,
			strconv.FormatInt(f.AmountCents, 10),
			f.Status,
			f.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return out
}

// ServeExportCSV handles GET /finance/funds/export/csv.
func (h *Handler) ServeExportCSV(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "fund export csv")
	defer cancel()

	rows, err := h.Funds.ListAll(ctx)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "funds")
		return
	}
	filtered := tabular.Apply(rows, tabular.ParseFilter(r), selector)
	export.ServeCSV(w, h.Log, "funds", exportColumns, exportRows(filtered))
}

// ServeExportPDF handles GET /finance/funds/export/pdf.
func (h *Handler) ServeExportPDF(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "fund export pdf")
	defer cancel()

	rows, err := h.Funds.ListAll(ctx)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "funds")
		return
	}
	filtered := tabular.Apply(rows, tabular.ParseFilter(r), selector)
	export.ServePDF(w, h.Log, "funds", "Fund Report", exportColumns, exportRows(filtered))
}
