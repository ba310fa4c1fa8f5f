// internal/app/features/complaints/routes.go
package complaints

import "github.com/go-chi/chi/v5"

// Routes returns the farmer-facing subrouter, mounted under /complaints.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Post("/", h.ServeCreate)
	r.Put("/{id}", h.ServeUpdate)
	r.Delete("/{id}", h.ServeDelete)
	r.Post("/{id}/photo", h.ServePhoto)
	r.Get("/export/csv", h.ServeExportCSV)
	r.Get("/export/pdf", h.ServeExportPDF)
	return r
}

// AdminRoutes returns the staff subrouter, mounted under /admin/complaints
// for admins and agronomists.
func AdminRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeAdminList)
	r.Put("/{id}", h.ServeAdminUpdate)
	r.Delete("/{id}", h.ServeAdminDelete)
	r.Get("/export/csv", h.ServeAdminExportCSV)
	r.Get("/export/pdf", h.ServeAdminExportPDF)
	return r
}

// PublicRoutes returns the unauthenticated subrouter, mounted under
// /public/complaints.
func PublicRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.ServePublicCreate)
	r.Get("/{reference}", h.ServePublicStatus)
	return r
}
