// internal/app/features/harvests/handler.go
package harvests

import (
	"context"
	"net/http"

	"github.com/agrihub/agrihub/internal/app/features/errors"
	harveststore "github.com/agrihub/agrihub/internal/app/store/harvests"
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

// Handler serves the farmer's harvest records.
type Handler struct {
	Harvests *harveststore.Store
	Log      *zap.Logger
}

func NewHandler(harvests *harveststore.Store, logger *zap.Logger) *Handler {
	return &Handler{Harvests: harvests, Log: logger}
}

var selector = tabular.Selector[models.Harvest]{
	SearchFields: func(h models.Harvest) []string {
		return []string{h.Crop, h.Season, h.Quality}
	},
	Status: func(h models.Harvest) string { return h.Status },
}

type mutationResponse struct {
	Record *models.Harvest                       `json:"record,omitempty"`
	List   tabular.ListResponse[models.Harvest] `json:"list"`
}

type harvestRequest struct {
	FieldID    string  `json:"field_id"`
	Crop       string  `json:"crop"`
	Season     string  `json:"season"`
	QuantityKg float64 `json:"quantity_kg"`
	Quality    string  `json:"quality"`
	Status     string  `json:"status"`
}

func (req *harvestRequest) sanitize() {
	req.Crop = htmlsanitize.Text(req.Crop)
	req.Season = htmlsanitize.Text(req.Season)
	req.Quality = htmlsanitize.Text(req.Quality)
}

func (req *harvestRequest) fieldID() (*primitive.ObjectID, bool) {
	if req.FieldID == "" {
		return nil, true
	}
	id, err := primitive.ObjectIDFromHex(req.FieldID)
	if err != nil {
		return nil, false
	}
	return &id, true
}

// ServeList handles GET /harvests.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	_, farmerID, ok := currentFarmer(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "harvest list")
	defer cancel()

	rows, err := h.Harvests.ListByFarmer(ctx, farmerID)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "harvests")
		return
	}

	list := tabular.BuildList(rows, tabular.ParseFilter(r), selector, tabular.ParsePage(r, tabular.DefaultPageSize))
	webjson.Respond(w, http.StatusOK, list)
}

// ServeCreate handles POST /harvests.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	_, farmerID, ok := currentFarmer(w, r)
	if !ok {
		return
	}

	var req harvestRequest
	if err := webjson.Decode(r, &req); err != nil {
		webjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	req.sanitize()

	fieldID, ok := req.fieldID()
	if !ok {
		webjson.Error(w, http.StatusBadRequest, "invalid field_id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "harvest create")
	defer cancel()

	created, err := h.Harvests.Create(ctx, models.Harvest{
		FarmerID:   farmerID,
		FieldID:    fieldID,
		Crop:       req.Crop,
		Season:     req.Season,
		QuantityKg: req.QuantityKg,
		Quality:    req.Quality,
		Status:     req.Status,
	})
	if err != nil {
		webjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	list, err := h.reload(ctx, r, farmerID)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "harvests")
		return
	}
	webjson.Respond(w, http.StatusCreated, mutationResponse{Record: &created, List: list})
}

// ServeUpdate handles PUT /harvests/{id}.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	_, farmerID, ok := currentFarmer(w, r)
	if !ok {
		return
	}
	id, ok := errors.ParseObjectID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req harvestRequest
	if err := webjson.Decode(r, &req); err != nil {
		webjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	req.sanitize()

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "harvest update")
	defer cancel()

	matched, err := h.Harvests.UpdateOwned(ctx, id, farmerID, harveststore.Update{
		Crop:       req.Crop,
		Season:     req.Season,
		QuantityKg: req.QuantityKg,
		Quality:    req.Quality,
		Status:     req.Status,
	})
	if err != nil {
		webjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if matched == 0 {
		webjson.Error(w, http.StatusNotFound, "harvest not found")
		return
	}

	list, err := h.reload(ctx, r, farmerID)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "harvests")
		return
	}
	webjson.Respond(w, http.StatusOK, mutationResponse{List: list})
}

// ServeDelete handles DELETE /harvests/{id}.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	_, farmerID, ok := currentFarmer(w, r)
	if !ok {
		return
	}
	id, ok := errors.ParseObjectID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "harvest delete")
	defer cancel()

	deleted, err := h.Harvests.DeleteOwned(ctx, id, farmerID)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "harvest")
		return
	}
	if deleted == 0 {
		webjson.Error(w, http.StatusNotFound, "harvest not found")
		return
	}

	list, err := h.reload(ctx, r, farmerID)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "harvests")
		return
	}
	webjson.Respond(w, http.StatusOK, mutationResponse{List: list})
}

func (h *Handler) reload(ctx context.Context, r *http.Request, farmerID primitive.ObjectID) (tabular.ListResponse[models.Harvest], error) {
	rows, err := h.Harvests.ListByFarmer(ctx, farmerID)
	if err != nil {
		return tabular.ListResponse[models.Harvest]{}, err
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
