// internal/app/features/contributions/handler.go
package contributions

import (
	"context"
	"net/http"

	"github.com/agrihub/agrihub/internal/app/features/errors"
	contributionstore "github.com/agrihub/agrihub/internal/app/store/contributions"
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

// Handler serves donor contributions. Donors manage their own records;
// finance staff reconcile across all of them.
type Handler struct {
	Contributions *contributionstore.Store
	AuditLog      *auditlog.Logger
	Log           *zap.Logger
}

func NewHandler(contributions *contributionstore.Store, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{Contributions: contributions, AuditLog: audit, Log: logger}
}

var selector = tabular.Selector[models.Contribution]{
	SearchFields: func(c models.Contribution) []string {
		return []string{c.DonorName, c.Method, c.Currency, c.Note}
	},
	Status: func(c models.Contribution) string { return c.Status },
}

type mutationResponse struct {
	Record *models.Contribution                       `json:"record,omitempty"`
	List   tabular.ListResponse[models.Contribution] `json:"list"`
}

type contributionRequest struct {
	ProgramID   string `json:"program_id"`
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
	Method      string `json:"method"`
	Status      string `json:"status"`
	Note        string `json:"note"`
}

func (req *contributionRequest) sanitize() {
	req.Method = htmlsanitize.Text(req.Method)
	req.Note = htmlsanitize.Text(req.Note)
}

func (req *contributionRequest) programID() (*primitive.ObjectID, bool) {
	if req.ProgramID == "" {
		return nil, true
	}
	id, err := primitive.ObjectIDFromHex(req.ProgramID)
	if err != nil {
		return nil, false
	}
	return &id, true
}

// ServeList handles GET /contributions for the signed-in donor.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	_, donorID, ok := currentDonor(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "contribution list")
	defer cancel()

	rows, err := h.Contributions.ListByDonor(ctx, donorID)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "contributions")
		return
	}

	list := tabular.BuildList(rows, tabular.ParseFilter(r), selector, tabular.ParsePage(r, tabular.DefaultPageSize))
	webjson.Respond(w, http.StatusOK, list)
}

// ServeCreate handles POST /contributions.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	u, donorID, ok := currentDonor(w, r)
	if !ok {
		return
	}

	var req contributionRequest
	if err := webjson.Decode(r, &req); err != nil {
		webjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	req.sanitize()

	programID, ok := req.programID()
	if !ok {
		webjson.Error(w, http.StatusBadRequest, "invalid program_id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "contribution create")
	defer cancel()

	created, err := h.Contributions.Create(ctx, models.Contribution{
		DonorID:     donorID,
		ProgramID:   programID,
		DonorName:   u.Name,
		AmountCents: req.AmountCents,
		Currency:    req.Currency,
		Method:      req.Method,
		Status:      req.Status,
		Note:        req.Note,
	})
	if err != nil {
		webjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	h.AuditLog.ContributionRecorded(ctx, r, donorID, created.ID, created.AmountCents)

	list, err := h.reload(ctx, r, donorID)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "contributions")
		return
	}
	webjson.Respond(w, http.StatusCreated, mutationResponse{Record: &created, List: list})
}

// ServeUpdate handles PUT /contributions/{id} for the owning donor.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	_, donorID, ok := currentDonor(w, r)
	if !ok {
		return
	}
	id, ok := errors.ParseObjectID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req contributionRequest
	if err := webjson.Decode(r, &req); err != nil {
		webjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	req.sanitize()

	programID, ok := req.programID()
	if !ok {
		webjson.Error(w, http.StatusBadRequest, "invalid program_id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "contribution update")
	defer cancel()

	matched, err := h.Contributions.UpdateOwned(ctx, id, donorID, contributionstore.Update{
		ProgramID:   programID,
		AmountCents: req.AmountCents,
		Method:      req.Method,
		Status:      req.Status,
		Note:        req.Note,
	})
	if err != nil {
		webjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if matched == 0 {
		webjson.Error(w, http.StatusNotFound, "contribution not found")
		return
	}

	list, err := h.reload(ctx, r, donorID)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "contributions")
		return
	}
	webjson.Respond(w, http.StatusOK, mutationResponse{List: list})
}

// ServeDelete handles DELETE /contributions/{id}.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	_, donorID, ok := currentDonor(w, r)
	if !ok {
		return
	}
	id, ok := errors.ParseObjectID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "contribution delete")
	defer cancel()

	deleted, err := h.Contributions.DeleteOwned(ctx, id, donorID)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "contribution")
		return
	}
	if deleted == 0 {
		webjson.Error(w, http.StatusNotFound, "contribution not found")
		return
	}

	list, err := h.reload(ctx, r, donorID)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "contributions")
		return
	}
	webjson.Respond(w, http.StatusOK, mutationResponse{List: list})
}

func (h *Handler) reload(ctx context.Context, r *http.Request, donorID primitive.ObjectID) (tabular.ListResponse[models.Contribution], error) {
	rows, err := h.Contributions.ListByDonor(ctx, donorID)
	if err != nil {
		return tabular.ListResponse[models.Contribution]{}, err
	}
	return tabular.BuildList(rows, tabular.ParseFilter(r), selector, tabular.ParsePage(r, tabular.DefaultPageSize)), nil
}

func currentDonor(w http.ResponseWriter, r *http.Request) (*auth.SessionUser, primitive.ObjectID, bool) {
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
