// internal/app/features/users/export.go
package users

import (
	"net/http"
	"time"

	featerrors "github.com/agrihub/agrihub/internal/app/features/errors"
	"github.com/agrihub/agrihub/internal/app/system/export"
	"github.com/agrihub/agrihub/internal/app/system/tabular"
	"github.com/agrihub/agrihub/internal/app/system/timeouts"
	"github.com/agrihub/agrihub/internal/domain/models"
)

var exportColumns = []string{"full_name", "email", "role", "status", "region", "created_at"}

func exportRows(rows []models.User) [][]string {
	out := make([][]string, 0, len(rows))
	for _, u := range rows {
		out = append(out, []string{
			u.FullName,
			u.Email,
			u.Role,
			u.Status,
			u.Region,
			u.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return out
}

// ServeExportCSV handles GET /admin/users/export/csv.
func (h *Handler) ServeExportCSV(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "user export csv")
	defer cancel()

	rows, err := h.Users.List(ctx)
	if err != nil {
		featerrors.RenderStoreError(w, h.Log, err, "users")
		return
	}
	filtered := tabular.Apply(rows, tabular.ParseFilter(r), selector)
	export.ServeCSV(w, h.Log, "users", exportColumns, exportRows(filtered))
}

// ServeExportPDF handles GET /admin/users/export/pdf.
func (h *Handler) ServeExportPDF(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "user export pdf")
	defer cancel()

	rows, err := h.Users.List(ctx)
	if err != nil {
		featerrors.RenderStoreError(w, h.Log, err, "users")
		return
	}
	filtered := tabular.Apply(rows, tabular.ParseFilter(r), selector)
	export.ServePDF(w, h.Log, "users", "User Report", exportColumns, exportRows(filtered))
}
