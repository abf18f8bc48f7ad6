package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/sonar/internal/host"
)

// NewRouter creates a chi router serving plugin invocations.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(inv host.Invoker, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(inv)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// One invocation per request; the rest of the path is the route.
	r.Get("/plugin", h.Invoke)
	r.Get("/plugin/*", h.Invoke)

	// Route table.
	r.Get("/routes", h.Routes)

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
