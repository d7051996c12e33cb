package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"fintrack/internal/errs"
	applog "fintrack/internal/log"
)

type errorBody struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// respondError maps the error taxonomy onto HTTP statuses and writes the
// JSON error body. Storage causes are logged but never sent to the client.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validationErr *errs.ValidationError
		notFoundErr   *errs.NotFoundError
		storageErr    *errs.StorageError
	)

	switch {
	case errors.As(err, &validationErr):
		respondJSON(w, http.StatusBadRequest, errorBody{Error: validationErr.Msg})
	case errors.As(err, &notFoundErr):
		respondJSON(w, http.StatusNotFound, errorBody{Error: notFoundErr.Msg})
	case errors.As(err, &storageErr):
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Storage failure",
			applog.FieldPath, r.URL.Path,
			applog.FieldError, storageErr.Cause)
		respondJSON(w, http.StatusInternalServerError, errorBody{Error: storageErr.Msg})
	default:
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Unclassified failure",
			applog.FieldPath, r.URL.Path,
			applog.FieldError, err)
		respondJSON(w, http.StatusInternalServerError, errorBody{Error: "Internal server error"})
	}
}

// decodeJSON decodes a request body into dst, translating malformed JSON
// into a ValidationError.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errs.NewValidationError("Invalid request body")
	}
	return nil
}
