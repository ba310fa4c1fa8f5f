// internal/app/features/contributions/routes.go
package contributions

import "github.com/go-chi/chi/v5"

// Routes returns the donor subrouter, mounted under /contributions.
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

// FinanceRoutes returns the finance subrouter, mounted under
// /finance/contributions.
func FinanceRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeFinanceList)
	r.Put("/{id}", h.ServeFinanceUpdate)
	r.Get("/total", h.ServeFinanceTotal)
	r.Get("/export/csv", h.ServeFinanceExportCSV)
	r.Get("/export/pdf", h.ServeFinanceExportPDF)
	return r
}
