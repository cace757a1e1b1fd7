package httpx

import (
	"net/http"

	"github.com/formloop/formloop/log"
	"github.com/formloop/formloop/model"
)

// Error codes shared by the API surface.
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeConflict   = "CONFLICT"
	CodeRateLimit  = "RATE_LIMIT_EXCEEDED"
	CodeInternal   = "INTERNAL_ERROR"
)

// LogInternalError logs the underlying error and answers with a generic
// 500 envelope that does not leak internals.
func LogInternalError(w http.ResponseWriter, r *http.Request, code string, err error) {
	log.Errorf("%s: %s", code, err)
	WriteError(w, r, http.StatusInternalServerError, CodeInternal, "Internal server error", nil)
}

// LogNotFound logs a debug message and answers with a 404 envelope.
func LogNotFound(w http.ResponseWriter, r *http.Request, code string, msg string, id any) {
	log.Debugf("%s: not found (%v)", code, id)
	WriteError(w, r, http.StatusNotFound, code, msg, nil)
}

// LogConflict logs a debug message and answers with a 409 envelope.
func LogConflict(w http.ResponseWriter, r *http.Request, code string, msg string) {
	log.Debugf("%s: conflict", code)
	WriteError(w, r, http.StatusConflict, code, msg, nil)
}

// LogBadRequest logs a debug message and answers with a 400 envelope.
func LogBadRequest(w http.ResponseWriter, r *http.Request, code string, msg string) {
	log.Debug(code)
	WriteError(w, r, http.StatusBadRequest, code, msg, nil)
}

// LogUnauthorized logs a debug message and answers with a 401 envelope.
func LogUnauthorized(w http.ResponseWriter, r *http.Request, code string, msg string) {
	log.Debug(code)
	WriteError(w, r, http.StatusUnauthorized, code, msg, nil)
}

// ValidationFailed answers with a 422 envelope carrying every detected
// field-level problem.
func ValidationFailed(w http.ResponseWriter, r *http.Request, details []model.FieldError) {
	log.Debugf("validation failed: %d problem(s)", len(details))
	WriteError(w, r, http.StatusUnprocessableEntity, CodeValidation, "Validation failed", details)
}
