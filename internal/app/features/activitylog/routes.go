// internal/app/features/activitylog/routes.go
package activitylog

import (
	"github.com/go-chi/chi/v5"
)

// Routes returns the router for the activity log endpoints. Mounted under
// /api/activity-log; authentication is handled upstream by the identity
// proxy, so these routes trust the forwarded request.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Record)
	r.Get("/", h.ListActive)
	r.Get("/user", h.UserStats)

	return r
}
