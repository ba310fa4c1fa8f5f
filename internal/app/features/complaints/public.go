// internal/app/features/complaints/public.go
package complaints

import (
	"net/http"

	"github.com/agrihub/agrihub/internal/app/features/errors"
	"github.com/agrihub/agrihub/internal/app/system/htmlsanitize"
	"github.com/agrihub/agrihub/internal/app/system/timeouts"
	"github.com/agrihub/agrihub/internal/app/system/webjson"
	"github.com/agrihub/agrihub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type publicComplaintRequest struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Location    string `json:"location"`
}

func (req *publicComplaintRequest) sanitize() {
	req.Name = htmlsanitize.Text(req.Name)
	req.Title = htmlsanitize.Text(req.Title)
	req.Type = htmlsanitize.Text(req.Type)
	req.Description = htmlsanitize.Sanitize(req.Description)
	req.Location = htmlsanitize.Text(req.Location)
}

// ServePublicCreate handles POST /public/complaints. No session is
// required; the caller gets back a tracking reference instead of an id.
func (h *Handler) ServePublicCreate(w http.ResponseWriter, r *http.Request) {
	var req publicComplaintRequest
	if err := webjson.Decode(r, &req); err != nil {
		webjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	req.sanitize()

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "public complaint create")
	defer cancel()

	created, err := h.Complaints.Create(ctx, models.Complaint{
		Title:       req.Title,
		Type:        req.Type,
		Description: req.Description,
		Location:    req.Location,
		SubmittedBy: req.Name,
	})
	if err != nil {
		webjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	h.AuditLog.ComplaintCreated(ctx, r, nil, created.ID, created.Title)
	h.Log.Info("public complaint submitted", zap.String("reference", created.Reference))

	webjson.Respond(w, http.StatusCreated, map[string]string{
		"reference": created.Reference,
		"status":    created.Status,
	})
}

// publicStatusResponse deliberately exposes only what the tracking page
// needs; description and photo stay private.
type publicStatusResponse struct {
	Reference string `json:"reference"`
	Title     string `json:"title"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

// ServePublicStatus handles GET /public/complaints/{reference}.
func (h *Handler) ServePublicStatus(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "reference")
	if ref == "" {
		webjson.Error(w, http.StatusBadRequest, "reference is required")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "public complaint status")
	defer cancel()

	c, err := h.Complaints.GetByReference(ctx, ref)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "complaint")
		return
	}

	webjson.Respond(w, http.StatusOK, publicStatusResponse{
		Reference: c.Reference,
		Title:     c.Title,
		Status:    c.Status,
		CreatedAt: c.CreatedAt.UTC().Format("2006-01-02"),
	})
}
