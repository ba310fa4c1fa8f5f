// internal/app/features/profile/routes.go
package profile

import "github.com/go-chi/chi/v5"

// Routes returns the subrouter mounted under /profile for any signed-in
// user.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeGet)
	r.Put("/", h.ServeUpdate)
	r.Post("/picture", h.ServePicture)
	r.Put("/password", h.ServeChangePassword)
	return r
}
