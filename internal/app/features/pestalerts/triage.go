// internal/app/features/pestalerts/triage.go
package pestalerts

import (
	"context"
	"net/http"

	"github.com/agrihub/agrihub/internal/app/features/errors"
	pestalertstore "github.com/agrihub/agrihub/internal/app/store/pestalerts"
	"github.com/agrihub/agrihub/internal/app/system/auth"
	"github.com/agrihub/agrihub/internal/app/system/tabular"
	"github.com/agrihub/agrihub/internal/app/system/timeouts"
	"github.com/agrihub/agrihub/internal/app/system/webjson"
	"github.com/agrihub/agrihub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ServeTriageList handles GET /triage/pest-alerts for agronomists. The
// open=1 query narrows to alerts still needing attention.
func (h *Handler) ServeTriageList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "pest alert triage list")
	defer cancel()

	var (
		rows []models.PestAlert
		err  error
	)
	if query.Get(r, "open") == "1" {
		rows, err = h.Alerts.ListOpen(ctx)
	} else {
		rows, err = h.Alerts.ListAll(ctx)
	}
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "pest alerts")
		return
	}

	list := tabular.BuildList(rows, tabular.ParseFilter(r), selector, tabular.ParsePage(r, tabular.DefaultPageSize))
	webjson.Respond(w, http.StatusOK, list)
}

// ServeTriageUpdate handles PUT /triage/pest-alerts/{id}: an agronomist
// updating severity, status, or treatment notes on any farmer's alert.
func (h *Handler) ServeTriageUpdate(w http.ResponseWriter, r *http.Request) {
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

	var req alertRequest
	if err := webjson.Decode(r, &req); err != nil {
		webjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	req.sanitize()

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "pest alert triage update")
	defer cancel()

	matched, err := h.Alerts.UpdateAny(ctx, id, pestalertstore.Update{
		Pest:     req.Pest,
		Crop:     req.Crop,
		Location: req.Location,
		Severity: req.Severity,
		Status:   req.Status,
		Notes:    req.Notes,
	})
	if err != nil {
		webjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if matched == 0 {
		webjson.Error(w, http.StatusNotFound, "pest alert not found")
		return
	}

	if req.Status == "Resolved" {
		h.AuditLog.PestAlertResolved(ctx, r, actorID, id, u.Role)
	}

	list, err := h.reloadAll(ctx, r)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "pest alerts")
		return
	}
	webjson.Respond(w, http.StatusOK, mutationResponse{List: list})
}

func (h *Handler) reloadAll(ctx context.Context, r *http.Request) (tabular.ListResponse[models.PestAlert], error) {
	rows, err := h.Alerts.ListAll(ctx)
	if err != nil {
		return tabular.ListResponse[models.PestAlert]{}, err
	}
	return tabular.BuildList(rows, tabular.ParseFilter(r), selector, tabular.ParsePage(r, tabular.DefaultPageSize)), nil
}
