// internal/app/features/programs/handler.go
package programs

import (
	"context"
	"net/http"

	"github.com/agrihub/agrihub/internal/app/features/errors"
	contributionstore "github.com/agrihub/agrihub/internal/app/store/contributions"
	programstore "github.com/agrihub/agrihub/internal/app/store/programs"
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

// Handler serves community programs. Leaders manage their own; donors
// browse the whole catalog when choosing where to give.
type Handler struct {
	Programs      *programstore.Store
	Contributions *contributionstore.Store
	AuditLog      *auditlog.Logger
	Log           *zap.Logger
}

func NewHandler(programs *programstore.Store, contributions *contributionstore.Store, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Programs:      programs,
		Contributions: contributions,
		AuditLog:      audit,
		Log:           logger,
	}
}

var selector = tabular.Selector[models.Program]{
	SearchFields: func(p models.Program) []string {
		return []string{p.Name, p.Description, p.Location}
	},
	Status: func(p models.Program) string { return p.Status },
}

type mutationResponse struct {
	Record *models.Program                       `json:"record,omitempty"`
	List   tabular.ListResponse[models.Program] `json:"list"`
}

type programRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Status      string `json:"status"`
	BudgetCents int64  `json:"budget_cents"`
}

func (req *programRequest) sanitize() {
	req.Name = htmlsanitize.Text(req.Name)
	req.Description = htmlsanitize.Sanitize(req.Description)
	req.Location = htmlsanitize.Text(req.Location)
}

// ServeList handles GET /programs for the signed-in leader.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	_, leaderID, ok := currentLeader(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "program list")
	defer cancel()

	rows, err := h.Programs.ListByLeader(ctx, leaderID)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "programs")
		return
	}

	list := tabular.BuildList(rows, tabular.ParseFilter(r), selector, tabular.ParsePage(r, tabular.DefaultPageSize))
	webjson.Respond(w, http.StatusOK, list)
}

// ServeCreate handles POST /programs.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	u, leaderID, ok := currentLeader(w, r)
	if !ok {
		return
	}

	var req programRequest
	if err := webjson.Decode(r, &req); err != nil {
		webjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	req.sanitize()

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "program create")
	defer cancel()

	created, err := h.Programs.Create(ctx, models.Program{
		LeaderID:    leaderID,
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		Status:      req.Status,
		BudgetCents: req.BudgetCents,
	})
	if err != nil {
		webjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	h.AuditLog.ProgramCreated(ctx, r, leaderID, created.ID, u.Role, created.Name)

	list, err := h.reload(ctx, r, leaderID)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "programs")
		return
	}
	webjson.Respond(w, http.StatusCreated, mutationResponse{Record: &created, List: list})
}

// ServeUpdate handles PUT /programs/{id}.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	u, leaderID, ok := currentLeader(w, r)
	if !ok {
		return
	}
	id, ok := errors.ParseObjectID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req programRequest
	if err := webjson.Decode(r, &req); err != nil {
		webjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	req.sanitize()

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "program update")
	defer cancel()

	matched, err := h.Programs.UpdateOwned(ctx, id, leaderID, programstore.Update{
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		Status:      req.Status,
		BudgetCents: req.BudgetCents,
	})
	if err != nil {
		webjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if matched == 0 {
		webjson.Error(w, http.StatusNotFound, "program not found")
		return
	}

	h.AuditLog.ProgramUpdated(ctx, r, leaderID, id, u.Role)

	list, err := h.reload(ctx, r, leaderID)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "programs")
		return
	}
	webjson.Respond(w, http.StatusOK, mutationResponse{List: list})
}

// ServeDelete handles DELETE /programs/{id}.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	u, leaderID, ok := currentLeader(w, r)
	if !ok {
		return
	}
	id, ok := errors.ParseObjectID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "program delete")
	defer cancel()

	deleted, err := h.Programs.DeleteOwned(ctx, id, leaderID)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "program")
		return
	}
	if deleted == 0 {
		webjson.Error(w, http.StatusNotFound, "program not found")
		return
	}

	h.AuditLog.ProgramDeleted(ctx, r, leaderID, id, u.Role, "")

	list, err := h.reload(ctx, r, leaderID)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "programs")
		return
	}
	webjson.Respond(w, http.StatusOK, mutationResponse{List: list})
}

// ServeCatalog handles GET /programs/catalog: every program, for donors
// picking where to contribute.
func (h *Handler) ServeCatalog(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "program catalog")
	defer cancel()

	rows, err := h.Programs.ListAll(ctx)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "programs")
		return
	}

	list := tabular.BuildList(rows, tabular.ParseFilter(r), selector, tabular.ParsePage(r, tabular.DefaultPageSize))
	webjson.Respond(w, http.StatusOK, list)
}

// fundingResponse summarizes how a program is funded against its budget.
type fundingResponse struct {
	Program       *models.Program `json:"program"`
	ReceivedCents int64           `json:"received_cents"`
	BudgetCents   int64           `json:"budget_cents"`
}

// ServeFunding handles GET /programs/{id}/funding: the program plus the
// total of received contributions toward it.
func (h *Handler) ServeFunding(w http.ResponseWriter, r *http.Request) {
	id, ok := errors.ParseObjectID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "program funding")
	defer cancel()

	p, err := h.Programs.GetByID(ctx, id)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "program")
		return
	}

	received, err := h.Contributions.TotalReceivedCents(ctx, &id)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "contributions")
		return
	}

	webjson.Respond(w, http.StatusOK, fundingResponse{
		Program:       p,
		ReceivedCents: received,
		BudgetCents:   p.BudgetCents,
	})
}

func (h *Handler) reload(ctx context.Context, r *http.Request, leaderID primitive.ObjectID) (tabular.ListResponse[models.Program], error) {
	rows, err := h.Programs.ListByLeader(ctx, leaderID)
	if err != nil {
		return tabular.ListResponse[models.Program]{}, err
	}
	return tabular.BuildList(rows, tabular.ParseFilter(r), selector, tabular.ParsePage(r, tabular.DefaultPageSize)), nil
}

func currentLeader(w http.ResponseWriter, r *http.Request) (*auth.SessionUser, primitive.ObjectID, bool) {
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
