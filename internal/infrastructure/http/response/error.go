package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/rezkam/shoplist/internal/domain"
)

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Details []ErrorField `json:"details,omitempty"`
}

// ErrorField describes a field-specific error.
type ErrorField struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

// BadRequest sends a 400 Bad Request error.
func BadRequest(w http.ResponseWriter, message string) {
	Error(w, "INVALID_REQUEST", message, http.StatusBadRequest)
}

// ValidationError sends a 400 validation error with field details.
func ValidationError(w http.ResponseWriter, field, issue string) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Error: ErrorDetail{
			Code:    "VALIDATION_ERROR",
			Message: "validation failed",
			Details: []ErrorField{
				{Field: field, Issue: issue},
			},
		},
	})
}

// NotFound sends a 404 Not Found error.
func NotFound(w http.ResponseWriter, resource string) {
	Error(w, "NOT_FOUND", resource+" not found", http.StatusNotFound)
}

// Conflict sends a 409 Conflict error.
func Conflict(w http.ResponseWriter, message string) {
	Error(w, "CONFLICT", message, http.StatusConflict)
}

// InternalError sends a 500 Internal Server Error.
// The error is logged server-side; the client gets a generic message.
func InternalError(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		slog.ErrorContext(r.Context(), "Internal server error", "error", err)
	}
	Error(w, "INTERNAL_ERROR", "an internal error occurred", http.StatusInternalServerError)
}

// Error sends a generic error response.
func Error(w http.ResponseWriter, code, message string, statusCode int) {
	writeJSON(w, statusCode, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// FromDomainError maps domain errors to HTTP responses.
func FromDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	// Validation errors (400)
	case errors.Is(err, domain.ErrTextRequired):
		ValidationError(w, "text", "required field missing")
	case errors.Is(err, domain.ErrTextTooLong):
		ValidationError(w, "text", "must be 200 characters or less")
	case errors.Is(err, domain.ErrNameRequired):
		ValidationError(w, "name", "required field missing")
	case errors.Is(err, domain.ErrNameTooLong):
		ValidationError(w, "name", "must be 100 characters or less")
	case errors.Is(err, domain.ErrInvalidUnit):
		ValidationError(w, "unit", "must be one of units, kg, g")
	case errors.Is(err, domain.ErrInvalidCategory):
		ValidationError(w, "key", "unknown category")
	case errors.Is(err, domain.ErrInvalidLanguage):
		ValidationError(w, "language", "must be he or en")
	case errors.Is(err, domain.ErrInvalidID):
		ValidationError(w, "id", "invalid ID format")
	case errors.Is(err, domain.ErrInvalidCounts):
		ValidationError(w, "completed_items", "must not exceed total_items")
	case errors.Is(err, domain.ErrEmptyUpdateMask),
		errors.Is(err, domain.ErrUnknownField),
		errors.Is(err, domain.ErrFieldValueRequired):
		ValidationError(w, "update_mask", err.Error())

	// Not found errors (404)
	case errors.Is(err, domain.ErrItemNotFound):
		NotFound(w, "item")
	case errors.Is(err, domain.ErrSavedListNotFound):
		NotFound(w, "saved list")
	case errors.Is(err, domain.ErrNotFound):
		NotFound(w, "resource")

	// State conflicts (409)
	case errors.Is(err, domain.ErrEmptyList):
		Conflict(w, "list is empty")
	case errors.Is(err, domain.ErrDuplicateItemID):
		Conflict(w, err.Error())

	// Unknown errors (500)
	default:
		InternalError(w, r, err)
	}
}
