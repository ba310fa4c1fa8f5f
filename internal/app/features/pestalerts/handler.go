// internal/app/features/pestalerts/handler.go
package pestalerts

import (
	"context"
	"net/http"

	"github.com/agrihub/agrihub/internal/app/features/errors"
	pestalertstore "github.com/agrihub/agrihub/internal/app/store/pestalerts"
	"github.com/agrihub/agrihub/internal/app/system/auditlog"
	"github.com/agrihub/agrihub/internal/app/system/auth"
	"github.com/agrihub/agrihub/internal/app/system/htmlsanitize"
	"github.com/agrihub/agrihub/internal/app/system/tabular"
	"github.com/agrihub/agrihub/internal/app/system/timeouts"
	"github.com/agrihub/agrihub/internal/app/system/webjson"
	"github.com/agrihub/agrihub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler serves pest and disease alerts. Farmers report and manage their
// own; agronomists triage across everyone's.
type Handler struct {
	Alerts   *pestalertstore.Store
	AuditLog *auditlog.Logger
	Log      *zap.Logger
}

func NewHandler(alerts *pestalertstore.Store, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{Alerts: alerts, AuditLog: audit, Log: logger}
}

var selector = tabular.Selector[models.PestAlert]{
	SearchFields: func(a models.PestAlert) []string {
		return []string{a.Pest, a.Crop, a.Location, a.Severity}
	},
	Status: func(a models.PestAlert) string { return a.Status },
}

type mutationResponse struct {
	Record *models.PestAlert                       `json:"record,omitempty"`
	List   tabular.ListResponse[models.PestAlert] `json:"list"`
}

type alertRequest struct {
	Pest     string `json:"pest"`
	Crop     string `json:"crop"`
	Location string `json:"location"`
	Severity string `json:"severity"`
	Status   string `json:"status"`
	Notes    string `json:"notes"`
}

func (req *alertRequest) sanitize() {
	req.Pest = htmlsanitize.Text(req.Pest)
	req.Crop = htmlsanitize.Text(req.Crop)
	req.Location = htmlsanitize.Text(req.Location)
	req.Notes = htmlsanitize.Sanitize(req.Notes)
}

// ServeList handles GET /pest-alerts for the signed-in farmer.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	_, farmerID, ok := currentFarmer(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "pest alert list")
	defer cancel()

	rows, err := h.Alerts.ListByFarmer(ctx, farmerID)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "pest alerts")
		return
	}

	list := tabular.BuildList(rows, tabular.ParseFilter(r), selector, tabular.ParsePage(r, tabular.DefaultPageSize))
	webjson.Respond(w, http.StatusOK, list)
}

// ServeCreate handles POST /pest-alerts.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	_, farmerID, ok := currentFarmer(w, r)
	if !ok {
		return
	}

	var req alertRequest
	if err := webjson.Decode(r, &req); err != nil {
		webjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	req.sanitize()

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "pest alert create")
	defer cancel()

	created, err := h.Alerts.Create(ctx, models.PestAlert{
		FarmerID: farmerID,
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

	h.AuditLog.PestAlertCreated(ctx, r, farmerID, created.ID, "farmer", created.Severity)

	list, err := h.reload(ctx, r, farmerID)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "pest alerts")
		return
	}
	webjson.Respond(w, http.StatusCreated, mutationResponse{Record: &created, List: list})
}

// ServeUpdate handles PUT /pest-alerts/{id} for the reporting farmer.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	_, farmerID, ok := currentFarmer(w, r)
	if !ok {
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

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "pest alert update")
	defer cancel()

	matched, err := h.Alerts.UpdateOwned(ctx, id, farmerID, pestalertstore.Update{
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

	list, err := h.reload(ctx, r, farmerID)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "pest alerts")
		return
	}
	webjson.Respond(w, http.StatusOK, mutationResponse{List: list})
}

// ServeDelete handles DELETE /pest-alerts/{id}.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	_, farmerID, ok := currentFarmer(w, r)
	if !ok {
		return
	}
	id, ok := errors.ParseObjectID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "pest alert delete")
	defer cancel()

	deleted, err := h.Alerts.DeleteOwned(ctx, id, farmerID)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "pest alert")
		return
	}
	if deleted == 0 {
		webjson.Error(w, http.StatusNotFound, "pest alert not found")
		return
	}

	list, err := h.reload(ctx, r, farmerID)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "pest alerts")
		return
	}
	webjson.Respond(w, http.StatusOK, mutationResponse{List: list})
}

func (h *Handler) reload(ctx context.Context, r *http.Request, farmerID primitive.ObjectID) (tabular.ListResponse[models.PestAlert], error) {
	rows, err := h.Alerts.ListByFarmer(ctx, farmerID)
	if err != nil {
		return tabular.ListResponse[models.PestAlert]{}, err
	}
	return tabular.BuildList(rows, tabular.ParseFilter(r), selector, tabular.ParsePage(r, tabular.DefaultPageSize)), nil
}

func currentFarmer(w http.ResponseWriter, r *http.Request) (*auth.SessionUser, primitive.ObjectID, bool) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		webjson.Error(w, http.StatusUnauthorized, "unauthorized")
		return nil, primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		webjson.Error(w, http.StatusUnauthorized, "unauthorized")
		return nil, primitive.NilObjectID, false
	}
	return u, id, true
}
