package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/genfolio/internal/model"
	"github.com/sakif/genfolio/internal/service"
	"github.com/sakif/genfolio/internal/session"
)

var errNoSession = errors.New("handler: request has no draft session")

// DraftHandler serves the browser's in-progress profile. The draft key
// comes from the session cookie, never from the URL.
type DraftHandler struct {
	drafts *service.DraftService
	logger *slog.Logger
}

func NewDraftHandler(drafts *service.DraftService, logger *slog.Logger) *DraftHandler {
	return &DraftHandler{drafts: drafts, logger: logger}
}

// HandleGet returns the draft, or an empty record.
//
// HTTP: GET /api/draft
func (h *DraftHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	key, ok := session.KeyFromContext(r.Context())
	if !ok {
		writeError(w, errNoSession)
		return
	}

	p, err := h.drafts.Load(r.Context(), key)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, p)
}

// HandlePut replaces the draft.
//
// HTTP: PUT /api/draft
func (h *DraftHandler) HandlePut(w http.ResponseWriter, r *http.Request) {
	key, ok := session.KeyFromContext(r.Context())
	if !ok {
		writeError(w, errNoSession)
		return
	}

	var p model.ProfileRecord
	if err := decodeJSON(w, r, &p); err != nil {
		writeError(w, err)
		return
	}
	if err := h.drafts.Save(r.Context(), key, &p); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleDelete clears the draft. Used by the form's reset button and after
// a successful submission.
//
// HTTP: DELETE /api/draft
func (h *DraftHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	key, ok := session.KeyFromContext(r.Context())
	if !ok {
		writeError(w, errNoSession)
		return
	}
	if err := h.drafts.Clear(r.Context(), key); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
