// internal/app/features/pestalerts/routes.go
package pestalerts

import "github.com/go-chi/chi/v5"

// Routes returns the farmer subrouter, mounted under /pest-alerts.
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

// TriageRoutes returns the agronomist subrouter, mounted under
// /triage/pest-alerts.
func TriageRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeTriageList)
	r.Put("/{id}", h.ServeTriageUpdate)
	r.Get("/export/csv", h.ServeTriageExportCSV)
	r.Get("/export/pdf", h.ServeTriageExportPDF)
	return r
}
