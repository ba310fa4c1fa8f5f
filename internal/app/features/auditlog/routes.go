// internal/app/features/auditlog/routes.go
package auditlog

import "github.com/go-chi/chi/v5"

// Routes returns the admin subrouter, mounted under /admin/audit.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Get("/user/{id}", h.ServeUserEvents)
	r.Get("/failed-logins", h.ServeFailedLogins)
	return r
}
