// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"github.com/agrihub/agrihub/internal/app/system/auditlog"
	"github.com/agrihub/agrihub/internal/app/system/auth"
	"github.com/agrihub/agrihub/internal/app/system/webjson"
	"go.uber.org/zap"
)

type Handler struct {
	AuditLog *auditlog.Logger
	Log      *zap.Logger
}

func NewHandler(audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		AuditLog: audit,
		Log:      logger,
	}
}

// ServeLogout handles POST /logout. Always succeeds, even for callers
// without a session.
func (h *Handler) ServeLogout(w http.ResponseWriter, r *http.Request) {
	if u, ok := auth.CurrentUser(r); ok {
		h.AuditLog.Logout(r.Context(), r, u.ID)
		h.Log.Info("user logged out", zap.String("user_id", u.ID))
	}

	if err := auth.SignOut(w, r); err != nil {
		h.Log.Warn("logout: session clear failed", zap.Error(err))
	}

	webjson.Respond(w, http.StatusOK, map[string]string{"status": "signed out"})
}
