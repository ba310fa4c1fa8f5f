// internal/app/features/harvests/routes.go
package harvests

import "github.com/go-chi/chi/v5"

// Routes returns the subrouter mounted under /harvests for farmers.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Post("/", h.ServeCreate)
	r.Put("/{id}", h.ServeUpdate)
	r.Delete("/{id}", h.ServeDelete)
	r.Get("/export/csv", h.ServeExportCSV)
	r.Get("/export/pdf", h.ServeExportPDF)
	return r
}
