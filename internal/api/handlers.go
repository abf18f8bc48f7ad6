package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/sonar/internal/host"
	"github.com/starford/sonar/internal/plugin"
)

// Request headers carrying host state that is not part of the plugin URL.
const (
	HeaderHandle = "X-Plugin-Handle"
	HeaderInput  = "X-Plugin-Input"
)

// Handler holds API route handlers.
type Handler struct {
	inv host.Invoker
}

// NewHandler creates a new Handler.
func NewHandler(inv host.Invoker) *Handler {
	return &Handler{inv: inv}
}

// routePath extracts the plugin route from the URL (everything after
// /plugin). Routes keep their trailing slash.
func routePath(r *http.Request) string {
	raw := chi.URLParam(r, "*")
	return "/" + strings.TrimPrefix(raw, "/")
}

// Invoke handles GET /plugin/*.
//
//	@Summary		Run one plugin invocation
//	@Tags			plugin
//	@Produce		json
//	@Param			path			path		string	true	"Route path"
//	@Param			X-Plugin-Handle	header		int		false	"Host handle"
//	@Param			X-Plugin-Input	header		string	false	"Answer to an input dialog"
//	@Success		200				{object}	InvokeResponse
//	@Failure		400				{object}	errResponse
//	@Failure		404				{object}	errResponse
//	@Failure		502				{object}	errResponse
//	@Security		BearerAuth
//	@Router			/plugin/{path} [get]
func (h *Handler) Invoke(w http.ResponseWriter, r *http.Request) {
	req := host.Request{Path: routePath(r), Query: r.URL.RawQuery}
	if v := r.Header.Get(HeaderHandle); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody("invalid handle"))
			return
		}
		req.Handle = n
	}
	if _, ok := r.Header[http.CanonicalHeaderKey(HeaderInput)]; ok {
		input := r.Header.Get(HeaderInput)
		req.Input = &input
	}

	resp, err := h.inv.Invoke(r.Context(), req)
	if err != nil {
		writeError(w, req.Path, err, resp)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Routes handles GET /routes.
//
//	@Summary		List invocation paths
//	@Tags			plugin
//	@Produce		json
//	@Success		200	{object}	RoutesResponse
//	@Router			/routes [get]
func (h *Handler) Routes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, RoutesResponse{Routes: plugin.Paths})
}
