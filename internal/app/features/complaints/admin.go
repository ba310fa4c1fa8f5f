// internal/app/features/complaints/admin.go
package complaints

import (
	"context"
	"net/http"

	"github.com/agrihub/agrihub/internal/app/features/errors"
	complaintstore "github.com/agrihub/agrihub/internal/app/store/complaints"
	"github.com/agrihub/agrihub/internal/app/system/auth"
	"github.com/agrihub/agrihub/internal/app/system/export"
	"github.com/agrihub/agrihub/internal/app/system/tabular"
	"github.com/agrihub/agrihub/internal/app/system/timeouts"
	"github.com/agrihub/agrihub/internal/app/system/webjson"
	"github.com/agrihub/agrihub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ServeAdminList handles GET /admin/complaints across every farmer.
func (h *Handler) ServeAdminList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "admin complaint list")
	defer cancel()

	rows, err := h.Complaints.ListAll(ctx)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "complaints")
		return
	}

	list := tabular.BuildList(rows, tabular.ParseFilter(r), selector, tabular.ParsePage(r, tabular.DefaultPageSize))
	webjson.Respond(w, http.StatusOK, list)
}

// ServeAdminUpdate handles PUT /admin/complaints/{id}. Admins and
// agronomists can update any complaint; the common case is moving status.
func (h *Handler) ServeAdminUpdate(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)
	actorID, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		webjson.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, ok := errors.ParseObjectID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req complaintRequest
	if err := webjson.Decode(r, &req); err != nil {
		webjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	req.sanitize()

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "admin complaint update")
	defer cancel()

	matched, err := h.Complaints.UpdateAny(ctx, id, complaintstore.Update{
		Title:       req.Title,
		Type:        req.Type,
		Description: req.Description,
		Location:    req.Location,
		Status:      req.Status,
	})
	if err != nil {
		webjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if matched == 0 {
		webjson.Error(w, http.StatusNotFound, "complaint not found")
		return
	}

	h.AuditLog.ComplaintUpdated(ctx, r, actorID, id, u.Role, req.Status)

	list, err := h.reloadAll(ctx, r)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "complaints")
		return
	}
	webjson.Respond(w, http.StatusOK, mutationResponse{List: list})
}

// ServeAdminDelete handles DELETE /admin/complaints/{id}.
func (h *Handler) ServeAdminDelete(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)
	actorID, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		webjson.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, ok := errors.ParseObjectID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "admin complaint delete")
	defer cancel()

	deleted, err := h.Complaints.DeleteAny(ctx, id)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "complaint")
		return
	}
	if deleted == 0 {
		webjson.Error(w, http.StatusNotFound, "complaint not found")
		return
	}

	h.AuditLog.ComplaintDeleted(ctx, r, actorID, id, u.Role)

	list, err := h.reloadAll(ctx, r)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "complaints")
		return
	}
	webjson.Respond(w, http.StatusOK, mutationResponse{List: list})
}

// ServeAdminExportCSV handles GET /admin/complaints/export/csv.
func (h *Handler) ServeAdminExportCSV(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "admin complaint export csv")
	defer cancel()

	rows, err := h.Complaints.ListAll(ctx)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "complaints")
		return
	}
	filtered := tabular.Apply(rows, tabular.ParseFilter(r), selector)
	export.ServeCSV(w, h.Log, "complaints", exportColumns, exportRows(filtered))
}

// ServeAdminExportPDF handles GET /admin/complaints/export/pdf.
func (h *Handler) ServeAdminExportPDF(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "admin complaint export pdf")
	defer cancel()

	rows, err := h.Complaints.ListAll(ctx)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "complaints")
		return
	}
	filtered := tabular.Apply(rows, tabular.ParseFilter(r), selector)
	export.ServePDF(w, h.Log, "complaints", "Complaint Report", exportColumns, exportRows(filtered))
}

func (h *Handler) reloadAll(ctx context.Context, r *http.Request) (tabular.ListResponse[models.Complaint], error) {
	rows, err := h.Complaints.ListAll(ctx)
	if err != nil {
		return tabular.ListResponse[models.Complaint]{}, err
	}
	return tabular.BuildList(rows, tabular.ParseFilter(r), selector, tabular.ParsePage(r, tabular.DefaultPageSize)), nil
}
