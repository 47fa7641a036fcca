package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/genfolio/internal/model"
	"github.com/sakif/genfolio/internal/service"
	"github.com/sakif/genfolio/internal/session"
)

// ProfileHandler serves the submitted-profile API.
type ProfileHandler struct {
	profiles *service.ProfileService
	drafts   *service.DraftService
	logger   *slog.Logger
}

// NewProfileHandler builds the handler. drafts may be nil; when set, a
// successful submission clears the submitting browser's draft.
func NewProfileHandler(profiles *service.ProfileService, drafts *service.DraftService, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, drafts: drafts, logger: logger}
}

// CreateResponse is the body of a successful submission.
type CreateResponse struct {
	ID string `json:"id"`
}

// HandleCreate stores a finished profile.
//
// HTTP: POST /api/users
// RESPONSE: 201 {"id": "..."} with a Location header pointing at the record.
// The session's draft, if any, is cleared once the record is stored.
func (h *ProfileHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var p model.ProfileRecord
	if err := decodeJSON(w, r, &p); err != nil {
		h.logger.Warn("invalid profile JSON", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	stored, err := h.profiles.Create(r.Context(), &p)
	if err != nil {
		writeError(w, err)
		return
	}

	h.clearDraft(r)

	w.Header().Set("Location", "/api/users/"+stored.Profile.ID)
	w.Header().Set("ETag", etag(stored.Digest))
	writeJSON(w, http.StatusCreated, CreateResponse{ID: stored.Profile.ID})
}

// HandleGet returns one stored profile.
//
// HTTP: GET /api/users/{id}
// The body is served with a strong ETag; a matching If-None-Match gets an
// empty 304.
func (h *ProfileHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	stored, err := h.profiles.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	tag := etag(stored.Digest)
	w.Header().Set("ETag", tag)
	w.Header().Set("Cache-Control", "no-cache")
	if matchesETag(r.Header.Get("If-None-Match"), tag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	writeJSON(w, http.StatusOK, stored.Profile)
}

// clearDraft drops the submitted draft. The record is already stored, so a
// failure here is logged and the submission still succeeds.
func (h *ProfileHandler) clearDraft(r *http.Request) {
	if h.drafts == nil {
		return
	}
	key, ok := session.KeyFromContext(r.Context())
	if !ok {
		return
	}
	if err := h.drafts.Clear(r.Context(), key); err != nil {
		h.logger.Warn("clearing submitted draft failed", slog.String("error", err.Error()))
	}
}

func etag(digest string) string {
	return `"` + digest + `"`
}

// matchesETag implements the If-None-Match comparison for strong tags.
func matchesETag(header, tag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == tag {
			return true
		}
	}
	return false
}
