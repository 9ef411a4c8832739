// SPDX-License-Identifier: MIT

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tsido/idobridge/internal/domain/journey/model"
	"github.com/tsido/idobridge/internal/log"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error     string `json:"error"`
	Detail    string `json:"detail,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// classify maps a facade error to an HTTP status and a stable error token.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, model.ErrNotInitialized):
		return http.StatusPreconditionFailed, "not_initialized"
	case errors.Is(err, model.ErrConfiguration):
		return http.StatusServiceUnavailable, "configuration_error"
	case errors.Is(err, model.ErrInitialization):
		return http.StatusServiceUnavailable, "initialization_error"
	case errors.Is(err, model.ErrResponseNotExpected):
		return http.StatusConflict, "response_not_expected"
	case errors.Is(err, model.ErrNoActiveJourney):
		return http.StatusConflict, "no_active_journey"
	case errors.Is(err, model.ErrConversion):
		return http.StatusUnprocessableEntity, "conversion_error"
	case errors.Is(err, model.ErrValidation):
		return http.StatusBadRequest, "validation_error"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// writeError writes err as a classified JSON error.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, token := classify(err)

	logger := log.WithComponentFromContext(r.Context(), "api")
	ev := logger.Warn()
	if status >= http.StatusInternalServerError {
		ev = logger.Error()
	}
	ev.Err(err).Str(log.FieldEvent, "api.request_failed").Int(log.FieldStatus, status).Str("error_type", token).Msg("request failed")

	writeJSON(w, status, errorBody{
		Error:     token,
		Detail:    err.Error(),
		RequestID: log.RequestIDFromContext(r.Context()),
	})
}

// writeBadRequest reports a malformed request body or query.
func writeBadRequest(w http.ResponseWriter, r *http.Request, detail string) {
	writeJSON(w, http.StatusBadRequest, errorBody{
		Error:     "bad_request",
		Detail:    detail,
		RequestID: log.RequestIDFromContext(r.Context()),
	})
}
