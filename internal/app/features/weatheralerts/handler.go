// internal/app/features/weatheralerts/handler.go
package weatheralerts

import (
	"context"
	"net/http"
	"time"

	"github.com/agrihub/agrihub/internal/app/features/errors"
	weatheralertstore "github.com/agrihub/agrihub/internal/app/store/weatheralerts"
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

// Handler serves region-scoped weather advisories. Admins publish and
// manage them; farmers read the active set for their region.
type Handler struct {
	Alerts   *weatheralertstore.Store
	AuditLog *auditlog.Logger
	Log      *zap.Logger
}

func NewHandler(alerts *weatheralertstore.Store, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{Alerts: alerts, AuditLog: audit, Log: logger}
}

var selector = tabular.Selector[models.WeatherAlert]{
	SearchFields: func(a models.WeatherAlert) []string {
		return []string{a.Region, a.Title, a.Message}
	},
	Status: func(a models.WeatherAlert) string { return a.Severity },
}

type mutationResponse struct {
	Record *models.WeatherAlert                       `json:"record,omitempty"`
	List   tabular.ListResponse[models.WeatherAlert] `json:"list"`
}

type alertRequest struct {
	Region   string     `json:"region"`
	Title    string     `json:"title"`
	Severity string     `json:"severity"`
	Message  string     `json:"message"`
	StartsAt time.Time  `json:"starts_at"`
	EndsAt   *time.Time `json:"ends_at"`
}

func (req *alertRequest) sanitize() {
	req.Region = htmlsanitize.Text(req.Region)
	req.Title = htmlsanitize.Text(req.Title)
	req.Message = htmlsanitize.Sanitize(req.Message)
}

func (req *alertRequest) endsAt() time.Time {
	if req.EndsAt == nil {
		return time.Time{}
	}
	return *req.EndsAt
}

// ServeList handles GET /admin/weather-alerts.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "weather alert list")
	defer cancel()

	rows, err := h.Alerts.ListAll(ctx)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "weather alerts")
		return
	}

	list := tabular.BuildList(rows, tabular.ParseFilter(r), selector, tabular.ParsePage(r, tabular.DefaultPageSize))
	webjson.Respond(w, http.StatusOK, list)
}

// ServeCreate handles POST /admin/weather-alerts.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	u, actorID, ok := currentActor(w, r)
	if !ok {
		return
	}

	var req alertRequest
	if err := webjson.Decode(r, &req); err != nil {
		webjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	req.sanitize()

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "weather alert create")
	defer cancel()

	created, err := h.Alerts.Create(ctx, models.WeatherAlert{
		Region:   req.Region,
		Title:    req.Title,
		Severity: req.Severity,
		Message:  req.Message,
		StartsAt: req.StartsAt,
		EndsAt:   req.endsAt(),
	})
	if err != nil {
		webjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	h.AuditLog.WeatherAlertSent(ctx, r, actorID, created.ID, u.Role, created.Region)

	list, err := h.reload(ctx, r)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "weather alerts")
		return
	}
	webjson.Respond(w, http.StatusCreated, mutationResponse{Record: &created, List: list})
}

// ServeUpdate handles PUT /admin/weather-alerts/{id}.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
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

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "weather alert update")
	defer cancel()

	matched, err := h.Alerts.Update(ctx, id, weatheralertstore.Update{
		Region:   req.Region,
		Title:    req.Title,
		Severity: req.Severity,
		Message:  req.Message,
		StartsAt: req.StartsAt,
		EndsAt:   req.endsAt(),
	})
	if err != nil {
		webjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if matched == 0 {
		webjson.Error(w, http.StatusNotFound, "weather alert not found")
		return
	}

	list, err := h.reload(ctx, r)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "weather alerts")
		return
	}
	webjson.Respond(w, http.StatusOK, mutationResponse{List: list})
}

// ServeDelete handles DELETE /admin/weather-alerts/{id}.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := errors.ParseObjectID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "weather alert delete")
	defer cancel()

	deleted, err := h.Alerts.Delete(ctx, id)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "weather alert")
		return
	}
	if deleted == 0 {
		webjson.Error(w, http.StatusNotFound, "weather alert not found")
		return
	}

	list, err := h.reload(ctx, r)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "weather alerts")
		return
	}
	webjson.Respond(w, http.StatusOK, mutationResponse{List: list})
}

// ServeRegion handles GET /weather-alerts/region/{region}: the alerts
// currently in effect for one region, newest first.
func (h *Handler) ServeRegion(w http.ResponseWriter, r *http.Request) {
	region := chi.URLParam(r, "region")
	if region == "" {
		webjson.Error(w, http.StatusBadRequest, "region is required")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "weather alert region lookup")
	defer cancel()

	rows, err := h.Alerts.ListActiveByRegion(ctx, region, time.Now().UTC())
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "weather alerts")
		return
	}
	if rows == nil {
		rows = []models.WeatherAlert{}
	}
	webjson.Respond(w, http.StatusOK, map[string]any{"region": region, "alerts": rows})
}

func (h *Handler) reload(ctx context.Context, r *http.Request) (tabular.ListResponse[models.WeatherAlert], error) {
	rows, err := h.Alerts.ListAll(ctx)
	if err != nil {
		return tabular.ListResponse[models.WeatherAlert]{}, err
	}
	return tabular.BuildList(rows, tabular.ParseFilter(r), selector, tabular.ParsePage(r, tabular.DefaultPageSize)), nil
}

func currentActor(w http.ResponseWriter, r *http.Request) (*auth.SessionUser, primitive.ObjectID, bool) {
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
