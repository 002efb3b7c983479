package handlers

import (
	"net/http"

	"go.uber.org/zap"
)

// ErrMessageInternal is the generic message for 500 responses. Do not expose internal details to clients.
const ErrMessageInternal = "internal server error"

const (
	MessageInvalidJSON      = "invalid JSON"
	MessageValidationFailed = "validation failed"
	MessageForbidden        = "Forbidden"
)

// ErrorResponse defines standard error payload
type ErrorResponse struct {
	Error string `json:"error"`
}

// JSONError sends a JSON error response with a single "error" field.
func JSONError(w http.ResponseWriter, message string, status int) {
	JSON(w, status, ErrorResponse{Error: message})
}

// JSONValidationError sends a JSON error response with "error" and optional "fields" for field-level details.
// status is typically http.StatusBadRequest (400).
func JSONValidationError(w http.ResponseWriter, message string, fields map[string]string, status int) {
	out := map[string]interface{}{"error": message}
	if len(fields) > 0 {
		out["fields"] = fields
	}
	JSON(w, status, out)
}

// serverError logs err with the request id and sends a 500 with the endpoint's fixed message.
func serverError(log *zap.Logger, w http.ResponseWriter, r *http.Request, message string, err error) {
	logFor(log, r).Error(message, zap.Error(err))
	JSONError(w, message, http.StatusInternalServerError)
}
