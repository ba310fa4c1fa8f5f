// internal/app/features/contributions/finance.go
package contributions

import (
	"context"
	"net/http"

	"github.com/agrihub/agrihub/internal/app/features/errors"
	contributionstore "github.com/agrihub/agrihub/internal/app/store/contributions"
	"github.com/agrihub/agrihub/internal/app/system/auth"
	"github.com/agrihub/agrihub/internal/app/system/tabular"
	"github.com/agrihub/agrihub/internal/app/system/timeouts"
	"github.com/agrihub/agrihub/internal/app/system/webjson"
	"github.com/agrihub/agrihub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ServeFinanceList handles GET /finance/contributions.
func (h *Handler) ServeFinanceList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "finance contribution list")
	defer cancel()

	rows, err := h.Contributions.ListAll(ctx)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "contributions")
		return
	}

	list := tabular.BuildList(rows, tabular.ParseFilter(r), selector, tabular.ParsePage(r, tabular.DefaultPageSize))
	webjson.Respond(w, http.StatusOK, list)
}

// ServeFinanceUpdate handles PUT /finance/contributions/{id}: finance
// staff marking pledges received or refunded on any donor's record.
func (h *Handler) ServeFinanceUpdate(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)
	if _, err := primitive.ObjectIDFromHex(u.ID); err != nil {
		webjson.Error(w, http.StatusUnauthorized, "unauthorized")
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

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "finance contribution update")
	defer cancel()

	matched, err := h.Contributions.UpdateAny(ctx, id, contributionstore.Update{
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

	list, err := h.reloadAll(ctx, r)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "contributions")
		return
	}
	webjson.Respond(w, http.StatusOK, mutationResponse{List: list})
}

// ServeFinanceTotal handles GET /finance/contributions/total: the sum of
// received contributions, optionally narrowed by program.
func (h *Handler) ServeFinanceTotal(w http.ResponseWriter, r *http.Request) {
	var programID *primitive.ObjectID
	if raw := r.URL.Query().Get("program_id"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			webjson.Error(w, http.StatusBadRequest, "invalid program_id")
			return
		}
		programID = &id
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "finance contribution total")
	defer cancel()

	total, err := h.Contributions.TotalReceivedCents(ctx, programID)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "contributions")
		return
	}
	webjson.Respond(w, http.StatusOK, map[string]int64{"received_cents": total})
}

func (h *Handler) reloadAll(ctx context.Context, r *http.Request) (tabular.ListResponse[models.Contribution], error) {
	rows, err := h.Contributions.ListAll(ctx)
	if err != nil {
		return tabular.ListResponse[models.Contribution]{}, err
	}
	return tabular.BuildList(rows, tabular.ParseFilter(r), selector, tabular.ParsePage(r, tabular.DefaultPageSize)), nil
}
