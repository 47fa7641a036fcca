package handler

import (
	"net/http"

	"github.com/sakif/genfolio/internal/render"
)

// TemplateHandler exposes the template catalog.
type TemplateHandler struct {
	catalog *render.Catalog
}

func NewTemplateHandler(catalog *render.Catalog) *TemplateHandler {
	return &TemplateHandler{catalog: catalog}
}

// HandleList returns the catalog.
//
// HTTP: GET /api/templates
func (h *TemplateHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog)
}
