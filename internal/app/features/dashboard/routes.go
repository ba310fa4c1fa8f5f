// internal/app/features/dashboard/routes.go
package dashboard

import "github.com/go-chi/chi/v5"

// Routes returns the subrouter mounted under /dashboard.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/farmer/{id}/stats", h.ServeFarmerStats)
	r.Get("/farmer/{id}/crop-health", h.ServeCropHealth)
	return r
}
