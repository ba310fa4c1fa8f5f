// internal/app/features/users/handler.go
package users

import (
	"context"
	"errors"
	"net/http"

	featerrors "github.com/agrihub/agrihub/internal/app/features/errors"
	userstore "github.com/agrihub/agrihub/internal/app/store/users"
	"github.com/agrihub/agrihub/internal/app/system/auditlog"
	"github.com/agrihub/agrihub/internal/app/system/auth"
	"github.com/agrihub/agrihub/internal/app/system/htmlsanitize"
	"github.com/agrihub/agrihub/internal/app/system/status"
	"github.com/agrihub/agrihub/internal/app/system/tabular"
	"github.com/agrihub/agrihub/internal/app/system/timeouts"
	"github.com/agrihub/agrihub/internal/app/system/webjson"
	"github.com/agrihub/agrihub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Handler serves admin account management.
type Handler struct {
	Users    *userstore.Store
	AuditLog *auditlog.Logger
	Log      *zap.Logger
}

func NewHandler(users *userstore.Store, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{Users: users, AuditLog: audit, Log: logger}
}

var selector = tabular.Selector[models.User]{
	SearchFields: func(u models.User) []string {
		return []string{u.FullName, u.Email, u.Role, u.Region}
	},
	Status: func(u models.User) string { return u.Status },
}

type mutationResponse struct {
	Record *models.User                       `json:"record,omitempty"`
	List   tabular.ListResponse[models.User] `json:"list"`
}

type userRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Status   string `json:"status"`
	Region   string `json:"region"`
	Phone    string `json:"phone"`
}

func (req *userRequest) sanitize() {
	req.FullName = htmlsanitize.Text(req.FullName)
	req.Region = htmlsanitize.Text(req.Region)
	req.Phone = htmlsanitize.Text(req.Phone)
}

// ServeList handles GET /admin/users.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "user list")
	defer cancel()

	rows, err := h.Users.List(ctx)
	if err != nil {
		featerrors.RenderStoreError(w, h.Log, err, "users")
		return
	}

	list := tabular.BuildList(rows, tabular.ParseFilter(r), selector, tabular.ParsePage(r, tabular.DefaultPageSize))
	webjson.Respond(w, http.StatusOK, list)
}

// ServeCreate handles POST /admin/users.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	admin, adminID, ok := currentActor(w, r)
	if !ok {
		return
	}

	var req userRequest
	if err := webjson.Decode(r, &req); err != nil {
		webjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	req.sanitize()

	if len(req.Password) < 8 {
		webjson.Error(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.Log.Error("hash password failed", zap.Error(err))
		webjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "user create")
	defer cancel()

	created, err := h.Users.Create(ctx, models.User{
		FullName:     req.FullName,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
		Status:       req.Status,
		Region:       req.Region,
		Phone:        req.Phone,
	})
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			webjson.Error(w, http.StatusConflict, "email already in use")
			return
		}
		webjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	h.AuditLog.UserCreated(ctx, r, adminID, created.ID, admin.Role, created.Role)

	list, err := h.reload(ctx, r)
	if err != nil {
		featerrors.RenderStoreError(w, h.Log, err, "users")
		return
	}
	webjson.Respond(w, http.StatusCreated, mutationResponse{Record: &created, List: list})
}

// ServeUpdate handles PUT /admin/users/{id}.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	admin, adminID, ok := currentActor(w, r)
	if !ok {
		return
	}
	id, ok := featerrors.ParseObjectID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req userRequest
	if err := webjson.Decode(r, &req); err != nil {
		webjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	req.sanitize()

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "user update")
	defer cancel()

	taken, err := h.Users.EmailExistsForOther(ctx, req.Email, id)
	if err != nil {
		featerrors.RenderStoreError(w, h.Log, err, "users")
		return
	}
	if taken {
		webjson.Error(w, http.StatusConflict, "email already in use")
		return
	}

	if err := h.Users.Update(ctx, id, userstore.Update{
		FullName: req.FullName,
		Email:    req.Email,
		Role:     req.Role,
		Status:   req.Status,
		Region:   req.Region,
		Phone:    req.Phone,
	}); err != nil {
		featerrors.RenderStoreError(w, h.Log, err, "user")
		return
	}

	h.AuditLog.UserUpdated(ctx, r, adminID, id, admin.Role, "profile")

	list, err := h.reload(ctx, r)
	if err != nil {
		featerrors.RenderStoreError(w, h.Log, err, "users")
		return
	}
	webjson.Respond(w, http.StatusOK, mutationResponse{List: list})
}

// ServeDelete handles DELETE /admin/users/{id}. Admins cannot delete
// their own account.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	admin, adminID, ok := currentActor(w, r)
	if !ok {
		return
	}
	id, ok := featerrors.ParseObjectID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	if id == adminID {
		webjson.Error(w, http.StatusBadRequest, "cannot delete your own account")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "user delete")
	defer cancel()

	target, err := h.Users.GetByID(ctx, id)
	if err != nil {
		featerrors.RenderStoreError(w, h.Log, err, "user")
		return
	}

	deleted, err := h.Users.Delete(ctx, id)
	if err != nil {
		featerrors.RenderStoreError(w, h.Log, err, "user")
		return
	}
	if deleted == 0 {
		webjson.Error(w, http.StatusNotFound, "user not found")
		return
	}

	h.AuditLog.UserDeleted(ctx, r, adminID, id, admin.Role, target.Role)

	list, err := h.reload(ctx, r)
	if err != nil {
		featerrors.RenderStoreError(w, h.Log, err, "users")
		return
	}
	webjson.Respond(w, http.StatusOK, mutationResponse{List: list})
}

type statusRequest struct {
	Status string `json:"status"`
}

// ServeSetStatus handles PUT /admin/users/{id}/status: enabling or
// disabling an account without touching the rest of the profile.
func (h *Handler) ServeSetStatus(w http.ResponseWriter, r *http.Request) {
	admin, adminID, ok := currentActor(w, r)
	if !ok {
		return
	}
	id, ok := featerrors.ParseObjectID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	if id == adminID {
		webjson.Error(w, http.StatusBadRequest, "cannot change your own status")
		return
	}

	var req statusRequest
	if err := webjson.Decode(r, &req); err != nil {
		webjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if !status.IsValid(req.Status) {
		webjson.Error(w, http.StatusBadRequest, `status must be "active" or "disabled"`)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "user status update")
	defer cancel()

	target, err := h.Users.GetByID(ctx, id)
	if err != nil {
		featerrors.RenderStoreError(w, h.Log, err, "user")
		return
	}

	if err := h.Users.Update(ctx, id, userstore.Update{
		FullName: target.FullName,
		Email:    target.Email,
		Role:     target.Role,
		Status:   req.Status,
		Region:   target.Region,
		Phone:    target.Phone,
	}); err != nil {
		featerrors.RenderStoreError(w, h.Log, err, "user")
		return
	}

	h.AuditLog.UserUpdated(ctx, r, adminID, id, admin.Role, "status")

	list, err := h.reload(ctx, r)
	if err != nil {
		featerrors.RenderStoreError(w, h.Log, err, "users")
		return
	}
	webjson.Respond(w, http.StatusOK, mutationResponse{List: list})
}

func (h *Handler) reload(ctx context.Context, r *http.Request) (tabular.ListResponse[models.User], error) {
	rows, err := h.Users.List(ctx)
	if err != nil {
		return tabular.ListResponse[models.User]{}, err
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
