// internal/app/features/programs/routes.go
package programs

import "github.com/go-chi/chi/v5"

// Routes returns the leader subrouter, mounted under /programs.
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

// CatalogRoutes returns the read-only subrouter any signed-in user can
// browse, mounted under /programs/catalog.
func CatalogRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeCatalog)
	r.Get("/{id}/funding", h.ServeFunding)
	return r
}
