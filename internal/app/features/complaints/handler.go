// internal/app/features/complaints/handler.go
package complaints

import (
	"context"
	"net/http"

	"github.com/agrihub/agrihub/internal/app/features/errors"
	complaintstore "github.com/agrihub/agrihub/internal/app/store/complaints"
	"github.com/agrihub/agrihub/internal/app/system/auditlog"
	"github.com/agrihub/agrihub/internal/app/system/auth"
	"github.com/agrihub/agrihub/internal/app/system/htmlsanitize"
	"github.com/agrihub/agrihub/internal/app/system/tabular"
	"github.com/agrihub/agrihub/internal/app/system/timeouts"
	"github.com/agrihub/agrihub/internal/app/system/uploads"
	"github.com/agrihub/agrihub/internal/app/system/webjson"
	"github.com/agrihub/agrihub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// maxPhotoBytes caps complaint photo uploads.
const maxPhotoBytes = 5 << 20 // 5 MiB

// Handler serves the farmer-facing complaint endpoints.
type Handler struct {
	Complaints *complaintstore.Store
	Storage    storage.Store
	AuditLog   *auditlog.Logger
	Log        *zap.Logger
}

func NewHandler(complaints *complaintstore.Store, store storage.Store, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Complaints: complaints,
		Storage:    store,
		AuditLog:   audit,
		Log:        logger,
	}
}

// selector drives search and status filtering for complaint lists.
var selector = tabular.Selector[models.Complaint]{
	SearchFields: func(c models.Complaint) []string {
		return []string{c.Title, c.Type, c.Location, c.Reference}
	},
	Status: func(c models.Complaint) string { return c.Status },
}

// mutationResponse is returned by create/update/delete: the refreshed list
// (same filter and page the client was viewing) plus the touched record on
// create.
type mutationResponse struct {
	Record *models.Complaint                       `json:"record,omitempty"`
	List   tabular.ListResponse[models.Complaint] `json:"list"`
}

type complaintRequest struct {
	Title       string `json:"title"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Status      string `json:"status"`
}

func (req *complaintRequest) sanitize() {
	req.Title = htmlsanitize.Text(req.Title)
	req.Type = htmlsanitize.Text(req.Type)
	req.Description = htmlsanitize.Sanitize(req.Description)
	req.Location = htmlsanitize.Text(req.Location)
}

// ServeList handles GET /complaints for the signed-in farmer.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	_, farmerID, ok := currentFarmer(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "complaint list")
	defer cancel()

	rows, err := h.Complaints.ListByFarmer(ctx, farmerID)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "complaints")
		return
	}

	list := tabular.BuildList(rows, tabular.ParseFilter(r), selector, tabular.ParsePage(r, tabular.DefaultPageSize))
	webjson.Respond(w, http.StatusOK, list)
}

// ServeCreate handles POST /complaints. The response carries the created
// record and the reloaded list.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	_, farmerID, ok := currentFarmer(w, r)
	if !ok {
		return
	}

	var req complaintRequest
	if err := webjson.Decode(r, &req); err != nil {
		webjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	req.sanitize()

	u, _ := auth.CurrentUser(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "complaint create")
	defer cancel()

	created, err := h.Complaints.Create(ctx, models.Complaint{
		FarmerID:    &farmerID,
		Title:       req.Title,
		Type:        req.Type,
		Description: req.Description,
		Location:    req.Location,
		Status:      req.Status,
		SubmittedBy: u.Name,
	})
	if err != nil {
		webjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	h.AuditLog.ComplaintCreated(ctx, r, &farmerID, created.ID, created.Title)

	list, err := h.reload(ctx, r, farmerID)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "complaints")
		return
	}
	webjson.Respond(w, http.StatusCreated, mutationResponse{Record: &created, List: list})
}

// ServeUpdate handles PUT /complaints/{id}. Farmers can only touch their
// own complaints; a foreign or missing id is a 404 either way.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	_, farmerID, ok := currentFarmer(w, r)
	if !ok {
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

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "complaint update")
	defer cancel()

	matched, err := h.Complaints.UpdateOwned(ctx, id, farmerID, complaintstore.Update{
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

	h.AuditLog.ComplaintUpdated(ctx, r, farmerID, id, "farmer", req.Status)

	list, err := h.reload(ctx, r, farmerID)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "complaints")
		return
	}
	webjson.Respond(w, http.StatusOK, mutationResponse{List: list})
}

// ServeDelete handles DELETE /complaints/{id}.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	_, farmerID, ok := currentFarmer(w, r)
	if !ok {
		return
	}
	id, ok := errors.ParseObjectID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "complaint delete")
	defer cancel()

	deleted, err := h.Complaints.DeleteOwned(ctx, id, farmerID)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "complaint")
		return
	}
	if deleted == 0 {
		webjson.Error(w, http.StatusNotFound, "complaint not found")
		return
	}

	h.AuditLog.ComplaintDeleted(ctx, r, farmerID, id, "farmer")

	list, err := h.reload(ctx, r, farmerID)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "complaints")
		return
	}
	webjson.Respond(w, http.StatusOK, mutationResponse{List: list})
}

// ServePhoto handles POST /complaints/{id}/photo, a multipart upload of a
// supporting picture.
func (h *Handler) ServePhoto(w http.ResponseWriter, r *http.Request) {
	_, farmerID, ok := currentFarmer(w, r)
	if !ok {
		return
	}
	id, ok := errors.ParseObjectID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoBytes)
	if err := r.ParseMultipartForm(maxPhotoBytes); err != nil {
		webjson.Error(w, http.StatusRequestEntityTooLarge, "photo exceeds the 5 MB limit")
		return
	}
	file, header, err := r.FormFile("photo")
	if err != nil {
		webjson.Error(w, http.StatusBadRequest, "photo file is required")
		return
	}
	defer file.Close()

	if !allowedImageType(header.Header.Get("Content-Type")) {
		webjson.Error(w, http.StatusBadRequest, "photo must be a JPEG, PNG, or WebP image")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "complaint photo upload")
	defer cancel()

	// Confirm ownership before writing anything to storage.
	c, err := h.Complaints.GetByID(ctx, id)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "complaint")
		return
	}
	if c.FarmerID == nil || *c.FarmerID != farmerID {
		webjson.Error(w, http.StatusNotFound, "complaint not found")
		return
	}

	info, err := uploads.Save(ctx, h.Storage, "complaints", header.Filename, file, header.Size, header.Header.Get("Content-Type"))
	if err != nil {
		h.Log.Error("complaint photo upload failed", zap.Error(err))
		webjson.Error(w, http.StatusInternalServerError, "upload failed")
		return
	}

	if err := h.Complaints.SetPhotoPath(ctx, id, info.Path); err != nil {
		errors.RenderStoreError(w, h.Log, err, "complaint")
		return
	}

	webjson.Respond(w, http.StatusOK, map[string]string{"photo_path": info.Path})
}

func (h *Handler) reload(ctx context.Context, r *http.Request, farmerID primitive.ObjectID) (tabular.ListResponse[models.Complaint], error) {
	rows, err := h.Complaints.ListByFarmer(ctx, farmerID)
	if err != nil {
		return tabular.ListResponse[models.Complaint]{}, err
	}
	return tabular.BuildList(rows, tabular.ParseFilter(r), selector, tabular.ParsePage(r, tabular.DefaultPageSize)), nil
}

func allowedImageType(ct string) bool {
	switch ct {
	case "image/jpeg", "image/png", "image/webp":
		return true
	}
	return false
}

// currentFarmer pulls the signed-in user and parses their ID. RequireRole
// has already run, so a bad session here is a 401 edge, not a 500.
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
