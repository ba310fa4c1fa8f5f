// internal/app/features/funds/handler.go
package funds

import (
	"context"
	"net/http"

	"github.com/agrihub/agrihub/internal/app/features/errors"
	fundstore "github.com/agrihub/agrihub/internal/app/store/funds"
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

// Handler serves the finance ledger of allocations and disbursements.
type Handler struct {
	Funds    *fundstore.Store
	AuditLog *auditlog.Logger
	Log      *zap.Logger
}

func NewHandler(funds *fundstore.Store, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{Funds: funds, AuditLog: audit, Log: logger}
}

var selector = tabular.Selector[models.Fund]{
	SearchFields: func(f models.Fund) []string {
		return []string{f.Name, f.Kind}
	},
	Status: func(f models.Fund) string { return f.Status },
}

type mutationResponse struct {
	Record *models.Fund                       `json:"record,omitempty"`
	List   tabular.ListResponse[models.Fund] `json:"list"`
}

type fundRequest struct {
	ProgramID   string `json:"program_id"`
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	AmountCents int64  `json:"amount_cents"`
	Status      string `json:"status"`
}

func (req *fundRequest) sanitize() {
	req.Name = htmlsanitize.Text(req.Name)
}

func (req *fundRequest) programID() (*primitive.ObjectID, bool) {
	if req.ProgramID == "" {
		return nil, true
	}
	id, err := primitive.ObjectIDFromHex(req.ProgramID)
	if err != nil {
		return nil, false
	}
	return &id, true
}

// ServeList handles GET /finance/funds. The program_id query narrows the
// ledger to one program.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "fund list")
	defer cancel()

	var (
		rows []models.Fund
		err  error
	)
	if raw := r.URL.Query().Get("program_id"); raw != "" {
		programID, perr := primitive.ObjectIDFromHex(raw)
		if perr != nil {
			webjson.Error(w, http.StatusBadRequest, "invalid program_id")
			return
		}
		rows, err = h.Funds.ListByProgram(ctx, programID)
	} else {
		rows, err = h.Funds.ListAll(ctx)
	}
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "funds")
		return
	}

	list := tabular.BuildList(rows, tabular.ParseFilter(r), selector, tabular.ParsePage(r, tabular.DefaultPageSize))
	webjson.Respond(w, http.StatusOK, list)
}

// ServeCreate handles POST /finance/funds. An Allocation earmarks money
// for a program; a Disbursement records money leaving.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	_, actorID, ok := currentActor(w, r)
	if !ok {
		return
	}

	var req fundRequest
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

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "fund create")
	defer cancel()

	created, err := h.Funds.Create(ctx, models.Fund{
		ProgramID:   programID,
		Name:        req.Name,
		Kind:        req.Kind,
		AmountCents: req.AmountCents,
		Status:      req.Status,
		RecordedBy:  actorID,
	})
	if err != nil {
		webjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	switch created.Kind {
	case models.FundAllocation:
		pid := primitive.NilObjectID
		if created.ProgramID != nil {
			pid = *created.ProgramID
		}
		h.AuditLog.FundAllocated(ctx, r, actorID, created.ID, pid, created.AmountCents)
	case models.FundDisbursement:
		h.AuditLog.FundDisbursed(ctx, r, actorID, created.ID, created.AmountCents)
	}

	list, err := h.reload(ctx, r)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "funds")
		return
	}
	webjson.Respond(w, http.StatusCreated, mutationResponse{Record: &created, List: list})
}

// ServeUpdate handles PUT /finance/funds/{id}.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := errors.ParseObjectID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req fundRequest
	if err := webjson.Decode(r, &req); err != nil {
		webjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	req.sanitize()

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "fund update")
	defer cancel()

	matched, err := h.Funds.Update(ctx, id, fundstore.Update{
		Name:        req.Name,
		AmountCents: req.AmountCents,
		Status:      req.Status,
	})
	if err != nil {
		webjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if matched == 0 {
		webjson.Error(w, http.StatusNotFound, "fund not found")
		return
	}

	list, err := h.reload(ctx, r)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "funds")
		return
	}
	webjson.Respond(w, http.StatusOK, mutationResponse{List: list})
}

// ServeDelete handles DELETE /finance/funds/{id}.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := errors.ParseObjectID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "fund delete")
	defer cancel()

	deleted, err := h.Funds.Delete(ctx, id)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "fund")
		return
	}
	if deleted == 0 {
		webjson.Error(w, http.StatusNotFound, "fund not found")
		return
	}

	list, err := h.reload(ctx, r)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "funds")
		return
	}
	webjson.Respond(w, http.StatusOK, mutationResponse{List: list})
}

func (h *Handler) reload(ctx context.Context, r *http.Request) (tabular.ListResponse[models.Fund], error) {
	rows, err := h.Funds.ListAll(ctx)
	if err != nil {
		return tabular.ListResponse[models.Fund]{}, err
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
