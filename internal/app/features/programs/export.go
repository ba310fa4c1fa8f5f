// internal/app/features/programs/export.go
package programs

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

var exportColumns = []string{"name", "location", "status", "budget_cents", "created_at"}

func exportRows(rows []models.Program) [][]string {
	out := make([][]string, 0, len(rows))
	for _, p := range rows {
		out = append(out, []string{
			p.Name,
			p.Location,
			p.Status,
			strconv.FormatInt(p.BudgetCents, 10),
			p.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return out
}

// ServeExportCSV handles GET /programs/export/csv.
func (h *Handler) ServeExportCSV(w http.ResponseWriter, r *http.Request) {
	_, leaderID, ok := currentLeader(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "program export csv")
	defer cancel()

	rows, err := h.Programs.ListByLeader(ctx, leaderID)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "programs")
		return
	}
	filtered := tabular.Apply(rows, tabular.ParseFilter(r), selector)
	export.ServeCSV(w, h.Log, "programs", exportColumns, exportRows(filtered))
}

// ServeExportPDF handles GET /programs/export/pdf.
func (h *Handler) ServeExportPDF(w http.ResponseWriter, r *http.Request) {
	_, leaderID, ok := currentLeader(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "program export pdf")
	defer cancel()

	rows, err := h.Programs.ListByLeader(ctx, leaderID)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "programs")
		return
	}
	filtered := tabular.Apply(rows, tabular.ParseFilter(r), selector)
	export.ServePDF(w, h.Log, "programs", "Program Report", exportColumns, exportRows(filtered))
}
