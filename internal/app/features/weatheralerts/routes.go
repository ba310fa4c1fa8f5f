// internal/app/features/weatheralerts/routes.go
package weatheralerts

import "github.com/go-chi/chi/v5"

// AdminRoutes returns the admin subrouter, mounted under
// /admin/weather-alerts.
func AdminRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Post("/", h.ServeCreate)
	r.Put("/{id}", h.ServeUpdate)
	r.Delete("/{id}", h.ServeDelete)
	return r
}

// Routes returns the signed-in subrouter, mounted under /weather-alerts.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/region/{region}", h.ServeRegion)
	return r
}
