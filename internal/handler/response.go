package handler

// Every API error has the same shape:
//
//	{"error": "validation_error", "message": "email is required", "field": "email", "section": "personal"}
//
// field and section are only present for validation errors; section names
// the form step the client should scroll back to.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/genfolio/internal/apperror"
	"github.com/sakif/genfolio/internal/profile"
)

// maxBodyBytes bounds JSON request bodies. Photos and resumes may arrive
// inline as data: URIs, hence the generous limit.
const maxBodyBytes = 8 << 20

// ErrorResponse is the standard error format returned by all API endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Section string `json:"section,omitempty"`
}

// writeJSON sends a JSON response with the given status code. Headers must
// be set before the status is written.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// statusOf maps a domain error onto an HTTP status and error type.
func statusOf(err error) (int, string) {
	switch {
	case errors.Is(err, apperror.ErrValidation):
		return http.StatusBadRequest, "validation_error"
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, apperror.ErrConflict):
		return http.StatusConflict, "conflict"
	case errors.Is(err, apperror.ErrUnavailable):
		return http.StatusServiceUnavailable, "unavailable"
	}
	return http.StatusInternalServerError, "internal_error"
}

// writeError translates a domain error into an HTTP response. Anything
// that is not an *apperror.AppError becomes a generic 500 so internal
// details never leak to the client.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		})
		return
	}

	status, kind := statusOf(err)
	resp := ErrorResponse{Error: kind, Message: appErr.Message}
	if status == http.StatusBadRequest && appErr.Field != "" {
		resp.Field = appErr.Field
		resp.Section = string(profile.SectionOf(appErr.Field))
	}
	if status == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", "5")
	}
	writeJSON(w, status, resp)
}

// decodeJSON reads a single JSON value from the request body.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperror.ValidationFailed("body", "request body is too large")
		}
		return apperror.ValidationFailed("body", "request body must be valid JSON: "+err.Error())
	}
	return nil
}
