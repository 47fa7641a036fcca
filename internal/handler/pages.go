// Package handler contains the HTTP handlers: the JSON API under /api and
// the server-rendered pages.
//
// Handlers only parse requests and write responses. Validation and storage
// live in the service layer; HTML lives in the render package.
package handler

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/genfolio/internal/apperror"
	"github.com/sakif/genfolio/internal/render"
	"github.com/sakif/genfolio/internal/service"
)

// PageHandler serves the HTML pages. Templates are parsed once by the
// renderer at startup.
type PageHandler struct {
	renderer *render.Renderer
	profiles *service.ProfileService
	logger   *slog.Logger
}

func NewPageHandler(renderer *render.Renderer, profiles *service.ProfileService, logger *slog.Logger) *PageHandler {
	return &PageHandler{renderer: renderer, profiles: profiles, logger: logger}
}

// HandleIntro serves the landing page.
//
// HTTP: GET /
func (h *PageHandler) HandleIntro(w http.ResponseWriter, r *http.Request) {
	h.page(w, http.StatusOK, h.renderer.RenderIntro)
}

// HandleForm serves the multi-step profile form.
//
// HTTP: GET /home
func (h *PageHandler) HandleForm(w http.ResponseWriter, r *http.Request) {
	h.page(w, http.StatusOK, h.renderer.RenderForm)
}

// HandlePortfolio renders a stored profile.
//
// HTTP: GET /portfolio/{id}?template=<id>
//
// The optional template parameter previews the profile in another template
// without changing the stored choice. An unknown profile renders the
// terminal not-found page; a storage failure renders the retry page.
func (h *PageHandler) HandlePortfolio(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	templateID := r.URL.Query().Get("template")

	stored, err := h.profiles.Get(r.Context(), id)
	switch {
	case errors.Is(err, apperror.ErrNotFound), errors.Is(err, apperror.ErrValidation):
		h.page(w, http.StatusNotFound, func(buf io.Writer) error {
			return h.renderer.RenderNotFound(buf, id)
		})
		return
	case err != nil:
		h.logger.Error("failed to load profile",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		w.Header().Set("Retry-After", "5")
		h.page(w, http.StatusServiceUnavailable, func(buf io.Writer) error {
			return h.renderer.RenderUnavailable(buf, r.URL.RequestURI())
		})
		return
	}

	opts := render.Options{SpyURL: spyURL(id, templateID)}
	h.page(w, http.StatusOK, func(buf io.Writer) error {
		return h.renderer.Render(buf, stored.Profile, templateID, opts)
	})
}

// page renders into a buffer so a template failure can still become a
// clean 500 instead of a truncated page.
func (h *PageHandler) page(w http.ResponseWriter, status int, fn func(io.Writer) error) {
	var buf bytes.Buffer
	if err := fn(&buf); err != nil {
		h.logger.Error("failed to render page", slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Warn("failed to write page", slog.String("error", err.Error()))
	}
}

func spyURL(id, templateID string) string {
	u := "/portfolio/" + url.PathEscape(id) + "/spy"
	if templateID != "" {
		u += "?" + url.Values{"template": {templateID}}.Encode()
	}
	return u
}
