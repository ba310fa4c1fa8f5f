// internal/app/features/contributions/export.go
package contributions

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

var exportColumns = []string{"donor", "amount_cents", "currency", "method", "status", "created_at"}

func exportRows(rows []models.Contribution) [][]string {
	out := make([][]string, 0, len(rows))
	for _, c := range rows {
		out = append(out, []string{
			c.DonorName,
			strconv.FormatInt(c.AmountCents, 10),
			c.Currency,
			c.Method,
			c.Status,
			c.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return out
}

// ServeExportCSV handles GET /contributions/export/csv for the donor.
func (h *Handler) ServeExportCSV(w http.ResponseWriter, r *http.Request) {
	_, donorID, ok := currentDonor(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "contribution export csv")
	defer cancel()

	rows, err := h.Contributions.ListByDonor(ctx, donorID)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "contributions")
		return
	}
	filtered := tabular.Apply(rows, tabular.ParseFilter(r), selector)
	export.ServeCSV(w, h.Log, "contributions", exportColumns, exportRows(filtered))
}

// ServeExportPDF handles GET /contributions/export/pdf for the donor.
func (h *Handler) ServeExportPDF(w http.ResponseWriter, r *http.Request) {
	_, donorID, ok := currentDonor(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "contribution export pdf")
	defer cancel()

	rows, err := h.Contributions.ListByDonor(ctx, donorID)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "contributions")
		return
	}
	filtered := tabular.Apply(rows, tabular.ParseFilter(r), selector)
	export.ServePDF(w, h.Log, "contributions", "Contribution Report", exportColumns, exportRows(filtered))
}

// ServeFinanceExportCSV handles GET /finance/contributions/export/csv.
func (h *Handler) ServeFinanceExportCSV(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "finance contribution export csv")
	defer cancel()

	rows, err := h.Contributions.ListAll(ctx)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "contributions")
		return
	}
	filtered := tabular.Apply(rows, tabular.ParseFilter(r), selector)
	export.ServeCSV(w, h.Log, "contributions", exportColumns, exportRows(filtered))
}

// ServeFinanceExportPDF handles GET /finance/contributions/export/pdf.
func (h *Handler) ServeFinanceExportPDF(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "finance contribution export pdf")
	defer cancel()

	rows, err := h.Contributions.ListAll(ctx)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "contributions")
		return
	}
	filtered := tabular.Apply(rows, tabular.ParseFilter(r), selector)
	export.ServePDF(w, h.Log, "contributions", "Contribution Report", exportColumns, exportRows(filtered))
}
