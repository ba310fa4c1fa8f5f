// internal/app/features/auditlog/handler.go
package auditlog

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/agrihub/agrihub/internal/app/features/errors"
	"github.com/agrihub/agrihub/internal/app/store/audit"
	"github.com/agrihub/agrihub/internal/app/system/timeouts"
	"github.com/agrihub/agrihub/internal/app/system/webjson"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const pageSize = 50

// Handler serves the admin audit trail.
type Handler struct {
	Audit *audit.Store
	Log   *zap.Logger
}

func NewHandler(auditStore *audit.Store, logger *zap.Logger) *Handler {
	return &Handler{Audit: auditStore, Log: logger}
}

type listResponse struct {
	Events     []audit.Event `json:"events"`
	Page       int           `json:"page"`
	TotalPages int           `json:"total_pages"`
	TotalRows  int64         `json:"total_rows"`
}

// ServeList handles GET /admin/audit with category, event_type,
// start_date, end_date, and page query filters.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "audit log list")
	defer cancel()

	page := 1
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}

	filter := audit.QueryFilter{
		Category:  strings.TrimSpace(r.URL.Query().Get("category")),
		EventType: strings.TrimSpace(r.URL.Query().Get("event_type")),
		Region:    strings.TrimSpace(r.URL.Query().Get("region")),
		Limit:     pageSize,
		Offset:    int64((page - 1) * pageSize),
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("start_date")); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			filter.StartTime = &t
		}
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("end_date")); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			endOfDay := t.Add(24*time.Hour - time.Second)
			filter.EndTime = &endOfDay
		}
	}

	events, err := h.Audit.Query(ctx, filter)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "audit events")
		return
	}
	total, err := h.Audit.CountByFilter(ctx, filter)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "audit events")
		return
	}

	totalPages := int((total + pageSize - 1) / pageSize)
	if totalPages < 1 {
		totalPages = 1
	}
	if events == nil {
		events = []audit.Event{}
	}

	webjson.Respond(w, http.StatusOK, listResponse{
		Events:     events,
		Page:       page,
		TotalPages: totalPages,
		TotalRows:  total,
	})
}

// ServeUserEvents handles GET /admin/audit/user/{id}: recent events for
// one account.
func (h *Handler) ServeUserEvents(w http.ResponseWriter, r *http.Request) {
	id, ok := errors.ParseObjectID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "audit user events")
	defer cancel()

	events, err := h.Audit.GetByUser(ctx, id, pageSize)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "audit events")
		return
	}
	if events == nil {
		events = []audit.Event{}
	}
	webjson.Respond(w, http.StatusOK, map[string]any{"events": events})
}

// ServeFailedLogins handles GET /admin/audit/failed-logins: failed
// attempts over the last 24 hours, for spotting credential stuffing.
func (h *Handler) ServeFailedLogins(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "audit failed logins")
	defer cancel()

	events, err := h.Audit.GetFailedLogins(ctx, time.Now().Add(-24*time.Hour), pageSize)
	if err != nil {
		errors.RenderStoreError(w, h.Log, err, "audit events")
		return
	}
	if events == nil {
		events = []audit.Event{}
	}
	webjson.Respond(w, http.StatusOK, map[string]any{"events": events})
}
