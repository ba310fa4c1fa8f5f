// internal/app/features/profile/handler.go
package profile

import (
	"net/http"

	"github.com/agrihub/agrihub/internal/app/features/errors"
	userstore "github.com/agrihub/agrihub/internal/app/store/users"
	"github.com/agrihub/agrihub/internal/app/system/auditlog"
	"github.com/agrihub/agrihub/internal/app/system/auth"
	"github.com/agrihub/agrihub/internal/app/system/htmlsanitize"
	"github.com/agrihub/agrihub/internal/app/system/timeouts"
	"github.com/agrihub/agrihub/internal/app/system/uploads"
	"github.com/agrihub/agrihub/internal/app/system/webjson"
	"github.com/dalemusser/waffle/pantry/storage"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// maxPictureBytes caps profile picture uploads.
const maxPictureBytes = 5 << 20 // 5 MiB

// Handler serves the signed-in user's own account.
type Handler struct {
	Users    *userstore.Store
	Storage  storage.Store
	AuditLog *auditlog.Logger
	Log      *zap.Logger
}

func NewHandler(users *userstore.Store, store storage.Store, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:    users,
		Storage:  store,
		AuditLog: audit,
		Log:      logger,
	}
}

// ServeGet handles GET /profile.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	_, userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "profile get")
	defer cancel()

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "profile")
		return
	}
	webjson.Respond(w, http.StatusOK, u)
}

type profileRequest struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Region   string `json:"region"`
}

// ServeUpdate handles PUT /profile. Email and role are admin-managed and
// cannot be changed here.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	_, userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req profileRequest
	if err := webjson.Decode(r, &req); err != nil {
		webjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	req.FullName = htmlsanitize.Text(req.FullName)
	req.Phone = htmlsanitize.Text(req.Phone)
	req.Region = htmlsanitize.Text(req.Region)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "profile update")
	defer cancel()

	if err := h.Users.UpdateProfile(ctx, userID, req.FullName, req.Phone, req.Region); err != nil {
		errors.RenderStoreError(w, h.Log, err, "profile")
		return
	}

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "profile")
		return
	}
	webjson.Respond(w, http.StatusOK, u)
}

// ServePicture handles POST /profile/picture, a multipart upload.
func (h *Handler) ServePicture(w http.ResponseWriter, r *http.Request) {
	_, userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxPictureBytes)
	if err := r.ParseMultipartForm(maxPictureBytes); err != nil {
		webjson.Error(w, http.StatusRequestEntityTooLarge, "picture exceeds the 5 MB limit")
		return
	}
	file, header, err := r.FormFile("picture")
	if err != nil {
		webjson.Error(w, http.StatusBadRequest, "picture file is required")
		return
	}
	defer file.Close()

	if !allowedImageType(header.Header.Get("Content-Type")) {
		webjson.Error(w, http.StatusBadRequest, "picture must be a JPEG, PNG, or WebP image")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "profile picture upload")
	defer cancel()

	info, err := uploads.Save(ctx, h.Storage, "profiles", header.Filename, file, header.Size, header.Header.Get("Content-Type"))
	if err != nil {
		h.Log.Error("profile picture upload failed", zap.Error(err))
		webjson.Error(w, http.StatusInternalServerError, "upload failed")
		return
	}

	if err := h.Users.SetPicturePath(ctx, userID, info.Path); err != nil {
		errors.RenderStoreError(w, h.Log, err, "profile")
		return
	}

	webjson.Respond(w, http.StatusOK, map[string]string{"picture_path": info.Path})
}

type passwordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ServeChangePassword handles PUT /profile/password.
func (h *Handler) ServeChangePassword(w http.ResponseWriter, r *http.Request) {
	_, userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req passwordRequest
	if err := webjson.Decode(r, &req); err != nil {
		webjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.NewPassword) < 8 {
		webjson.Error(w, http.StatusBadRequest, "new password must be at least 8 characters")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "password change")
	defer cancel()

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "profile")
		return
	}
	if u.PasswordHash == "" {
		webjson.Error(w, http.StatusBadRequest, "account has no password; sign in with Google")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		webjson.Error(w, http.StatusForbidden, "current password is incorrect")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		h.Log.Error("hash password failed", zap.Error(err))
		webjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	if err := h.Users.SetPasswordHash(ctx, userID, string(hash)); err != nil {
		errors.RenderStoreError(w, h.Log, err, "profile")
		return
	}

	h.AuditLog.PasswordChanged(ctx, r, userID)
	webjson.Respond(w, http.StatusOK, map[string]string{"status": "password changed"})
}

func allowedImageType(ct string) bool {
	switch ct {
	case "image/jpeg", "image/png", "image/webp":
		return true
	}
	return false
}

func currentUser(w http.ResponseWriter, r *http.Request) (*auth.SessionUser, primitive.ObjectID, bool) {
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
