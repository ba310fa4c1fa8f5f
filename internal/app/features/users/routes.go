// internal/app/features/users/routes.go
package users

import "github.com/go-chi/chi/v5"

// Routes returns the admin subrouter, mounted under /admin/users.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Post("/", h.ServeCreate)
	r.Put("/{id}", h.ServeUpdate)
	r.Delete("/{id}", h.ServeDelete)
	r.Put("/{id}/status", h.ServeSetStatus)
	r.Get("/export/csv", h.ServeExportCSV)
	r.Get("/export/pdf", h.ServeExportPDF)
	return r
}
