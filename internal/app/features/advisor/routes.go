// internal/app/features/advisor/routes.go
package advisor

import "github.com/go-chi/chi/v5"

// Routes returns the subrouter mounted under /advisor for any signed-in
// user.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/analyze", h.ServeAnalyze)
	r.Get("/chat/{id}", h.ServeHistory)
	return r
}
