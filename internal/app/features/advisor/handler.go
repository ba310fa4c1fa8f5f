// internal/app/features/advisor/handler.go
package advisor

import (
	"net/http"

	"github.com/agrihub/agrihub/internal/app/features/errors"
	chatstore "github.com/agrihub/agrihub/internal/app/store/chats"
	"github.com/agrihub/agrihub/internal/app/system/auth"
	"github.com/agrihub/agrihub/internal/app/system/htmlsanitize"
	"github.com/agrihub/agrihub/internal/app/system/timeouts"
	"github.com/agrihub/agrihub/internal/app/system/webjson"
	"github.com/agrihub/agrihub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// historyLimit caps how many past exchanges the history endpoint returns.
const historyLimit = 50

// Handler serves the AI plant-disease advisory chat.
type Handler struct {
	Client *Client
	Chats  *chatstore.Store
	Log    *zap.Logger
}

func NewHandler(client *Client, chats *chatstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Client: client, Chats: chats, Log: logger}
}

type analyzeResponse struct {
	Diagnosis Diagnosis `json:"diagnosis"`
	Note      string    `json:"note,omitempty"`
}

// ServeAnalyze handles POST /advisor/analyze: a multipart upload with a
// crop photo and an optional note. The diagnosis is returned even when
// chat persistence fails; history is best-effort.
func (h *Handler) ServeAnalyze(w http.ResponseWriter, r *http.Request) {
	u, userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes)
	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		webjson.Error(w, http.StatusRequestEntityTooLarge, "image exceeds the 5 MB limit")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		webjson.Error(w, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	note := htmlsanitize.Text(r.FormValue("note"))

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Batch(), h.Log, "advisor analyze")
	defer cancel()

	diagnosis, err := h.Client.Analyze(ctx, u.ID, header.Filename, file)
	if err != nil {
		// The diagnosis already carries a user-facing fallback message.
		webjson.Respond(w, http.StatusOK, analyzeResponse{Diagnosis: diagnosis, Note: note})
		return
	}

	if _, err := h.Chats.Save(ctx, models.Chat{
		UserID:      userID,
		Note:        note,
		Disease:     diagnosis.Disease,
		Confidence:  diagnosis.Confidence,
		Description: diagnosis.Description,
		Treatment:   diagnosis.Treatment,
		Message:     diagnosis.Message,
	}); err != nil {
		h.Log.Warn("chat save failed", zap.Error(err), zap.String("user_id", u.ID))
	}

	webjson.Respond(w, http.StatusOK, analyzeResponse{Diagnosis: diagnosis, Note: note})
}

// ServeHistory handles GET /advisor/chat/{id}: past exchanges for one
// user, newest first. Users only see their own history.
func (h *Handler) ServeHistory(w http.ResponseWriter, r *http.Request) {
	u, _, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := errors.ParseObjectID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	if u.ID != id.Hex() && u.Role != "admin" {
		webjson.Error(w, http.StatusNotFound, "chat history not found")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "advisor history")
	defer cancel()

	rows, err := h.Chats.ListByUser(ctx, id, historyLimit)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "chat history")
		return
	}
	if rows == nil {
		rows = []models.Chat{}
	}
	webjson.Respond(w, http.StatusOK, map[string]any{"chats": rows})
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
