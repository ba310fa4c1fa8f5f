// internal/app/features/fields/handler.go
package fields

import (
	"context"
	"net/http"

	"github.com/agrihub/agrihub/internal/app/features/errors"
	fieldstore "github.com/agrihub/agrihub/internal/app/store/fields"
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

// Handler serves the farmer's field registry.
type Handler struct {
	Fields *fieldstore.Store
	Log    *zap.Logger
}

func NewHandler(fields *fieldstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Fields: fields, Log: logger}
}

var selector = tabular.Selector[models.Field]{
	SearchFields: func(f models.Field) []string {
		return []string{f.Name, f.Crop, f.Location, f.SoilType}
	},
	Status: func(f models.Field) string { return f.Status },
}

type mutationResponse struct {
	Record *models.Field                       `json:"record,omitempty"`
	List   tabular.ListResponse[models.Field] `json:"list"`
}

type fieldRequest struct {
	Name         string  `json:"name"`
	Crop         string  `json:"crop"`
	Location     string  `json:"location"`
	AreaHectares float64 `json:"area_hectares"`
	SoilType     string  `json:"soil_type"`
	Status       string  `json:"status"`
}

func (req *fieldRequest) sanitize() {
	req.Name = htmlsanitize.Text(req.Name)
	req.Crop = htmlsanitize.Text(req.Crop)
	req.Location = htmlsanitize.Text(req.Location)
	req.SoilType = htmlsanitize.Text(req.SoilType)
}

// ServeList handles GET /fields.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	_, farmerID, ok := currentFarmer(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "field list")
	defer cancel()

	rows, err := h.Fields.ListByFarmer(ctx, farmerID)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "fields")
		return
	}

	list := tabular.BuildList(rows, tabular.ParseFilter(r), selector, tabular.ParsePage(r, tabular.DefaultPageSize))
	webjson.Respond(w, http.StatusOK, list)
}

// ServeCreate handles POST /fields.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	_, farmerID, ok := currentFarmer(w, r)
	if !ok {
		return
	}

	var req fieldRequest
	if err := webjson.Decode(r, &req); err != nil {
		webjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	req.sanitize()

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "field create")
	defer cancel()

	created, err := h.Fields.Create(ctx, models.Field{
		FarmerID:     farmerID,
		Name:         req.Name,
		Crop:         req.Crop,
		Location:     req.Location,
		AreaHectares: req.AreaHectares,
		SoilType:     req.SoilType,
		Status:       req.Status,
	})
	if err != nil {
		webjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	list, err := h.reload(ctx, r, farmerID)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "fields")
		return
	}
	webjson.Respond(w, http.StatusCreated, mutationResponse{Record: &created, List: list})
}

// ServeUpdate handles PUT /fields/{id}.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	_, farmerID, ok := currentFarmer(w, r)
	if !ok {
		return
	}
	id, ok := errors.ParseObjectID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req fieldRequest
	if err := webjson.Decode(r, &req); err != nil {
		webjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	req.sanitize()

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "field update")
	defer cancel()

	matched, err := h.Fields.UpdateOwned(ctx, id, farmerID, fieldstore.Update{
		Name:         req.Name,
		Crop:         req.Crop,
		Location:     req.Location,
		AreaHectares: req.AreaHectares,
		SoilType:     req.SoilType,
		Status:       req.Status,
	})
	if err != nil {
		webjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if matched == 0 {
		webjson.Error(w, http.StatusNotFound, "field not found")
		return
	}

	list, err := h.reload(ctx, r, farmerID)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "fields")
		return
	}
	webjson.Respond(w, http.StatusOK, mutationResponse{List: list})
}

// ServeDelete handles DELETE /fields/{id}.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	_, farmerID, ok := currentFarmer(w, r)
	if !ok {
		return
	}
	id, ok := errors.ParseObjectID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "field delete")
	defer cancel()

	deleted, err := h.Fields.DeleteOwned(ctx, id, farmerID)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "field")
		return
	}
	if deleted == 0 {
		webjson.Error(w, http.StatusNotFound, "field not found")
		return
	}

	list, err := h.reload(ctx, r, farmerID)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "fields")
		return
	}
	webjson.Respond(w, http.StatusOK, mutationResponse{List: list})
}

func (h *Handler) reload(ctx context.Context, r *http.Request, farmerID primitive.ObjectID) (tabular.ListResponse[models.Field], error) {
	rows, err := h.Fields.ListByFarmer(ctx, farmerID)
	if err != nil {
		return tabular.ListResponse[models.Field]{}, err
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
