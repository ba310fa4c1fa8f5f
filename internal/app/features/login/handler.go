// internal/app/features/login/handler.go
package login

import (
	"net/http"

	userstore "github.com/agrihub/agrihub/internal/app/store/users"
	"github.com/agrihub/agrihub/internal/app/system/auditlog"
	"github.com/agrihub/agrihub/internal/app/system/auth"
	"github.com/agrihub/agrihub/internal/app/system/normalize"
	"github.com/agrihub/agrihub/internal/app/system/ratelimit"
	"github.com/agrihub/agrihub/internal/app/system/status"
	"github.com/agrihub/agrihub/internal/app/system/timeouts"
	"github.com/agrihub/agrihub/internal/app/system/webjson"
	"github.com/agrihub/agrihub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type Handler struct {
	Users    *userstore.Store
	AuditLog *auditlog.Logger
	Limiter  *ratelimit.LoginLimiter
	Log      *zap.Logger
}

func NewHandler(users *userstore.Store, audit *auditlog.Logger, limiter *ratelimit.LoginLimiter, logger *zap.Logger) *Handler {
	return &Handler{
		Users:    users,
		AuditLog: audit,
		Limiter:  limiter,
		Log:      logger,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	User *models.User `json:"user"`
}

// ServeLogin handles POST /login. A failed lookup and a failed password
// check return the same message so attackers cannot probe for accounts.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := webjson.Decode(r, &req); err != nil {
		webjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if normalize.Email(req.Email) == "" || req.Password == "" {
		webjson.Error(w, http.StatusBadRequest, "email and password are required")
		return
	}

	if allowed, reason := h.Limiter.Check(r, req.Email); !allowed {
		h.Log.Warn("login rate limited",
			zap.String("ip", ratelimit.ClientIP(r)),
			zap.String("email", normalize.Email(req.Email)))
		webjson.Error(w, http.StatusTooManyRequests, reason)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "login lookup")
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			h.AuditLog.LoginFailedUserNotFound(ctx, r, normalize.Email(req.Email))
			webjson.Error(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		h.Log.Error("login: user lookup failed", zap.Error(err))
		webjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	if normalize.Status(u.Status) == status.Disabled {
		h.AuditLog.LoginFailedUserDisabled(ctx, r, u.ID, u.Email)
		webjson.Error(w, http.StatusForbidden, "account disabled")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		h.AuditLog.LoginFailedWrongPassword(ctx, r, u.ID, u.Email)
		webjson.Error(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	sessUser := &auth.SessionUser{
		ID:     u.ID.Hex(),
		Name:   u.FullName,
		Email:  u.Email,
		Role:   u.Role,
		Region: u.Region,
	}
	if err := auth.SignIn(w, r, sessUser); err != nil {
		h.Log.Error("login: session save failed", zap.Error(err), zap.String("user_id", u.ID.Hex()))
		webjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.Limiter.ResetEmail(req.Email)
	h.AuditLog.LoginSuccess(ctx, r, u.ID, u.AuthMethod, u.Email)
	h.Log.Info("user logged in",
		zap.String("user_id", u.ID.Hex()),
		zap.String("role", u.Role))

	webjson.Respond(w, http.StatusOK, loginResponse{User: u})
}
