// internal/app/features/dashboard/handler.go
package dashboard

import (
	"net/http"

	"github.com/agrihub/agrihub/internal/app/features/errors"
	harveststore "github.com/agrihub/agrihub/internal/app/store/harvests"
	pestalertstore "github.com/agrihub/agrihub/internal/app/store/pestalerts"
	userstore "github.com/agrihub/agrihub/internal/app/store/users"
	"github.com/agrihub/agrihub/internal/app/system/auth"
	"github.com/agrihub/agrihub/internal/app/system/timeouts"
	"github.com/agrihub/agrihub/internal/app/system/webjson"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler serves farmer dashboard summaries. Farmers see their own;
// agronomists, leaders, and admins can look up any farmer.
type Handler struct {
	Users    *userstore.Store
	Harvests *harveststore.Store
	Alerts   *pestalertstore.Store
	Log      *zap.Logger
}

func NewHandler(users *userstore.Store, harvests *harveststore.Store, alerts *pestalertstore.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Users:    users,
		Harvests: harvests,
		Alerts:   alerts,
		Log:      logger,
	}
}

type statsResponse struct {
	FarmerID    string             `json:"farmer_id"`
	FarmerName  string             `json:"farmer_name"`
	TotalKg     float64            `json:"total_kg"`
	RecordCount int64              `json:"record_count"`
	ByCrop      map[string]float64 `json:"by_crop"`
}

// ServeFarmerStats handles GET /dashboard/farmer/{id}/stats.
func (h *Handler) ServeFarmerStats(w http.ResponseWriter, r *http.Request) {
	farmerID, ok := h.resolveFarmer(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "farmer stats")
	defer cancel()

	farmer, err := h.Users.GetFarmerByID(ctx, farmerID)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "farmer")
		return
	}

	totals, err := h.Harvests.TotalsByFarmer(ctx, farmerID)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "harvests")
		return
	}

	webjson.Respond(w, http.StatusOK, statsResponse{
		FarmerID:    farmer.ID.Hex(),
		FarmerName:  farmer.FullName,
		TotalKg:     totals.TotalKg,
		RecordCount: int64(totals.RecordCount),
		ByCrop:      totals.ByCrop,
	})
}

type cropHealthResponse struct {
	FarmerID   string `json:"farmer_id"`
	OpenAlerts int64  `json:"open_alerts"`
	Health     string `json:"health"` // Good | Fair | Poor
}

// ServeCropHealth handles GET /dashboard/farmer/{id}/crop-health: a
// coarse health grade from the count of unresolved pest alerts.
func (h *Handler) ServeCropHealth(w http.ResponseWriter, r *http.Request) {
	farmerID, ok := h.resolveFarmer(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "crop health")
	defer cancel()

	open, err := h.Alerts.CountOpenByFarmer(ctx, farmerID)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "pest alerts")
		return
	}

	webjson.Respond(w, http.StatusOK, cropHealthResponse{
		FarmerID:   farmerID.Hex(),
		OpenAlerts: open,
		Health:     healthGrade(open),
	})
}

func healthGrade(openAlerts int64) string {
	switch {
	case openAlerts == 0:
		return "Good"
	case openAlerts <= 2:
		return "Fair"
	default:
		return "Poor"
	}
}

// resolveFarmer parses the path id and enforces that farmers only see
// their own dashboard. Staff roles may view any farmer.
func (h *Handler) resolveFarmer(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		webjson.Error(w, http.StatusUnauthorized, "unauthorized")
		return primitive.NilObjectID, false
	}
	id, ok := errors.ParseObjectID(w, chi.URLParam(r, "id"))
	if !ok {
		return primitive.NilObjectID, false
	}
	if u.Role == "farmer" && u.ID != id.Hex() {
		webjson.Error(w, http.StatusNotFound, "farmer not found")
		return primitive.NilObjectID, false
	}
	return id, true
}
