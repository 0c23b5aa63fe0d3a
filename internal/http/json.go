// Package httpx provides the JSON HTTP adapter over the ledger service. It
// is a thin translation layer: parse, call the facade, render the typed
// result. No business logic lives here.
package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"

	apperrors "github.com/trustgigs/ledger/internal/errors"
)

// DecodeJSON decodes JSON from the request body into the destination and
// handles errors. Returns true if successful, false if an error response was
// already written.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		WriteError(w, apperrors.Wrap(err, apperrors.ErrCodeInvalidInput, "invalid JSON body"))
		return false
	}
	return true
}

// WriteJSON writes a JSON response with the given status code and data.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := buf.WriteTo(w); err != nil {
		// Client disconnects can't be recovered from here.
		return
	}
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// WriteError renders a typed ledger error with its mapped HTTP status.
func WriteError(w http.ResponseWriter, err error) {
	code := apperrors.GetCode(err)
	if code == "" {
		code = apperrors.ErrCodeInternal
	}
	WriteJSON(w, statusFor(code), errorBody{
		Error:   string(code),
		Message: err.Error(),
		Field:   apperrors.GetField(err),
	})
}

// statusFor maps ledger error codes onto HTTP statuses. Every state-machine
// violation is a conflict with current state, not a malformed request.
func statusFor(code apperrors.ErrorCode) int {
	switch code {
	case apperrors.ErrCodeInvalidInput:
		return http.StatusBadRequest
	case apperrors.ErrCodeUnauthorized:
		return http.StatusForbidden
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeInvalidStatus, apperrors.ErrCodeAlreadyApplied,
		apperrors.ErrCodeAlreadyWinner, apperrors.ErrCodeCannotCancel,
		apperrors.ErrCodeNotExpired, apperrors.ErrCodeConflict,
		apperrors.ErrCodeAlreadyLocked, apperrors.ErrCodeAlreadyReleased:
		return http.StatusConflict
	case apperrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
