package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates a chi router with the picker routes and, under /api,
// the manageData routes.
// authEnabled controls whether Bearer token auth is enforced on /api.
// sseHandler, if non-nil, is mounted at GET /api/events inside the auth group.
func NewRouter(h *Handler, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	r := chi.NewRouter()

	// Picker.
	r.Get("/", h.Page)
	r.Get("/calendar", h.View)
	r.Get("/calendar/grid", h.Grid)
	r.Post("/calendar/prev", h.PreviousMonth)
	r.Post("/calendar/next", h.NextMonth)
	r.Post("/calendar/select", h.SelectDay)

	r.Route("/api", func(r chi.Router) {
		r.Use(AuthMiddleware(authEnabled, token))

		r.Post("/manage-data", h.ManageData)
		r.Get("/selections", h.Selections)

		if sseHandler != nil {
			r.Get("/events", sseHandler.ServeHTTP)
		}
	})

	return r
}
